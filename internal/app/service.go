package app

import (
	"context"
	"fmt"
	"strings"

	"storyreel/internal/catalog"
	"storyreel/internal/engine"
	"storyreel/internal/llm"
	"storyreel/internal/render"
	"storyreel/internal/run"
	"storyreel/internal/speech"
	"storyreel/internal/stock"
	"storyreel/internal/storage"
	"storyreel/internal/transcribe"
	"storyreel/internal/uploader"
	"storyreel/pkg/config"
)

// Service ties the pipeline collaborators together for the CLI.
type Service struct {
	cfg         *config.Config
	llm         llm.Client
	speech      speech.Provider
	transcriber transcribe.Transcriber
	resolver    *stock.Resolver
	render      render.Engine
	library     storage.AssetLibrary
	downloader  *storage.Downloader
	catalog     *catalog.Store
	uploader    uploader.Uploader
}

type ServiceOptions struct {
	Config      *config.Config
	LLM         llm.Client
	Speech      speech.Provider
	Transcriber transcribe.Transcriber
	Resolver    *stock.Resolver
	Render      render.Engine
	Library     storage.AssetLibrary
	Downloader  *storage.Downloader
	Catalog     *catalog.Store
	Uploader    uploader.Uploader
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:         opts.Config,
		llm:         opts.LLM,
		speech:      opts.Speech,
		transcriber: opts.Transcriber,
		resolver:    opts.Resolver,
		render:      opts.Render,
		library:     opts.Library,
		downloader:  opts.Downloader,
		catalog:     opts.Catalog,
		uploader:    opts.Uploader,
	}
}

type GenerateRequest struct {
	// Topic prompts the script writer; Script supplies the narration
	// directly. Exactly one must be set.
	Topic  string
	Script string

	Vertical     bool
	Quality      string
	Language     string
	TextPosition string
	Music        string
	Watermark    string

	Progress engine.ProgressFunc
}

type GenerateResult struct {
	RunDir    string
	VideoPath string
	Thumbnail string
	Title     string
}

// Generate runs the whole pipeline for a new video.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if (req.Topic == "") == (req.Script == "") {
		return nil, fmt.Errorf("exactly one of topic or script must be set")
	}

	language := req.Language
	if language == "" {
		language = s.cfg.Pipeline.Language
	}
	quality := req.Quality
	if quality == "" {
		quality = s.cfg.Pipeline.Quality
	}
	textPosition := req.TextPosition
	if textPosition == "" {
		textPosition = s.cfg.Pipeline.TextPosition
	}

	dir, err := run.NewDir(s.cfg.Pipeline.VideosDir, run.NewID())
	if err != nil {
		return nil, err
	}
	store := run.NewStore(dir)

	state := &run.State{
		ID:            dir.ID(),
		Language:      language,
		Vertical:      req.Vertical,
		Quality:       quality,
		TextPosition:  textPosition,
		MusicName:     req.Music,
		WatermarkName: req.Watermark,
	}

	if req.Script != "" {
		state.Script = req.Script
		if !strings.EqualFold(language, "English") {
			translated, err := s.llm.Translate(ctx, req.Script, language)
			if err != nil {
				return nil, &engine.ConnectionError{Service: "translation", Err: err}
			}
			state.TranslatedScript = translated
		}
	} else {
		script, err := s.llm.GenerateScript(ctx, req.Topic, language)
		if err != nil {
			return nil, &engine.ConnectionError{Service: "script generation", Err: err}
		}
		state.Script = script
	}

	if err := store.Save(state); err != nil {
		return nil, err
	}

	return s.runPipeline(ctx, dir, store, state, req.Progress)
}

// Resume picks a crashed or interrupted run back up from its directory.
func (s *Service) Resume(ctx context.Context, runDir string, progress engine.ProgressFunc) (*GenerateResult, error) {
	dir, err := run.OpenDir(runDir)
	if err != nil {
		return nil, err
	}
	store := run.NewStore(dir)

	state, err := store.Load()
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("no state found in %s", runDir)
	}

	return s.runPipeline(ctx, dir, store, state, progress)
}

func (s *Service) runPipeline(ctx context.Context, dir *run.Dir, store *run.Store, state *run.State, progress engine.ProgressFunc) (*GenerateResult, error) {
	eng := engine.New(engine.Options{
		LLM:               s.llm,
		Speech:            s.speech,
		Transcriber:       s.transcriber,
		Resolver:          s.resolver,
		Render:            s.render,
		Library:           s.library,
		Downloader:        s.downloader,
		Catalog:           s.catalog,
		Dir:               dir,
		Store:             store,
		MostSpecificFirst: s.cfg.Pipeline.MostSpecificFirst,
		WordsPerMinute:    s.cfg.Pipeline.WordsPerMinute,
		Style: render.StyleOptions{
			FontName: s.cfg.Captions.FontName,
			FontSize: s.cfg.Captions.FontSize,
		},
		Progress: progress,
	})

	if err := eng.Run(ctx, state); err != nil {
		return nil, err
	}

	return &GenerateResult{
		RunDir:    dir.Path(),
		VideoPath: state.FinalPath,
		Thumbnail: state.ThumbnailPath,
		Title:     state.Title,
	}, nil
}

// List returns every catalogued video.
func (s *Service) List() ([]catalog.Record, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("catalog is not configured")
	}
	return s.catalog.List()
}

// Upload publishes a catalogued video to the configured platform.
func (s *Service) Upload(ctx context.Context, id string) (*uploader.UploadResponse, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("uploader is not configured")
	}
	if s.catalog == nil {
		return nil, fmt.Errorf("catalog is not configured")
	}

	record, found, err := s.catalog.Get(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("video %s not found in catalog", id)
	}

	return s.uploader.Upload(ctx, uploader.UploadRequest{
		FilePath:      record.Data.GeneratedVideo,
		ThumbnailPath: record.Data.Thumbnail,
		Title:         record.Data.Title,
		Description:   record.Data.Description,
		Tags:          s.cfg.YouTube.DefaultTags,
		Privacy:       s.cfg.YouTube.PrivacyStatus,
	})
}

func (s *Service) Uploader() uploader.Uploader { return s.uploader }

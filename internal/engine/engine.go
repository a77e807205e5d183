package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"storyreel/internal/captions"
	"storyreel/internal/catalog"
	"storyreel/internal/llm"
	"storyreel/internal/render"
	"storyreel/internal/run"
	"storyreel/internal/speech"
	"storyreel/internal/stock"
	"storyreel/internal/storage"
	"storyreel/internal/transcribe"
)

// StepCount is the number of pipeline steps a run walks through.
const StepCount = 10

type step struct {
	name        string
	description string
	done        func(*run.State) bool
	execute     func(context.Context, *run.State) error
}

// ProgressFunc receives the 1-based step number and its description before
// the step runs.
type ProgressFunc func(step int, description string)

// Engine drives a run through the pipeline. Each step writes exactly one
// group of state fields; a step whose fields are already populated is
// skipped, which makes Run safe to call again on a crashed run.
type Engine struct {
	llm         llm.Client
	speech      speech.Provider
	transcriber transcribe.Transcriber
	resolver    *stock.Resolver
	render      render.Engine
	library     storage.AssetLibrary
	downloader  *storage.Downloader
	catalog     *catalog.Store

	dir   *run.Dir
	store *run.Store

	mostSpecificFirst bool
	wordsPerMinute    float64
	audioSpeed        float64
	styleOpts         render.StyleOptions
	progress          ProgressFunc
}

type Options struct {
	LLM         llm.Client
	Speech      speech.Provider
	Transcriber transcribe.Transcriber
	Resolver    *stock.Resolver
	Render      render.Engine
	Library     storage.AssetLibrary
	Downloader  *storage.Downloader
	Catalog     *catalog.Store

	Dir   *run.Dir
	Store *run.Store

	// MostSpecificFirst flips segment query ordering to try the narrowest
	// query first.
	MostSpecificFirst bool
	WordsPerMinute    float64
	AudioSpeed        float64
	Style             render.StyleOptions
	Progress          ProgressFunc
}

func New(opts Options) *Engine {
	engine := &Engine{
		llm:               opts.LLM,
		speech:            opts.Speech,
		transcriber:       opts.Transcriber,
		resolver:          opts.Resolver,
		render:            opts.Render,
		library:           opts.Library,
		downloader:        opts.Downloader,
		catalog:           opts.Catalog,
		dir:               opts.Dir,
		store:             opts.Store,
		mostSpecificFirst: opts.MostSpecificFirst,
		wordsPerMinute:    opts.WordsPerMinute,
		audioSpeed:        opts.AudioSpeed,
		styleOpts:         opts.Style,
		progress:          opts.Progress,
	}
	if engine.audioSpeed <= 0 {
		engine.audioSpeed = 1.0
	}
	if engine.progress == nil {
		engine.progress = func(int, string) {}
	}
	return engine
}

func (e *Engine) steps() []step {
	return []step{
		{
			name:        "generate_temp_audio",
			description: "Generating voiceover audio",
			done:        func(s *run.State) bool { return s.TempAudioPath != "" },
			execute:     e.generateTempAudio,
		},
		{
			name:        "normalize_audio",
			description: "Normalizing audio",
			done:        func(s *run.State) bool { return s.AudioPath != "" },
			execute:     e.normalizeAudio,
		},
		{
			name:        "time_captions",
			description: "Timing captions",
			done:        func(s *run.State) bool { return len(s.Captions) > 0 },
			execute:     e.timeCaptions,
		},
		{
			name:        "plan_queries",
			description: "Planning visual search queries",
			done:        func(s *run.State) bool { return len(s.Queries) > 0 },
			execute:     e.planQueries,
		},
		{
			name:        "resolve_footage",
			description: "Resolving stock footage",
			done:        func(s *run.State) bool { return len(s.Assets) > 0 },
			execute:     e.resolveFootage,
		},
		{
			name:        "choose_music",
			description: "Choosing background music",
			done:        func(s *run.State) bool { return s.MusicPath != "" || s.MusicName == "" },
			execute:     e.chooseMusic,
		},
		{
			name:        "prepare_background_assets",
			description: "Downloading background footage",
			done:        func(s *run.State) bool { return len(s.LocalClips) > 0 },
			execute:     e.prepareBackgroundAssets,
		},
		{
			name:        "prepare_custom_assets",
			description: "Preparing custom assets",
			done:        func(s *run.State) bool { return s.WatermarkPath != "" || s.WatermarkName == "" },
			execute:     e.prepareCustomAssets,
		},
		{
			name:        "render",
			description: "Rendering video",
			done:        func(s *run.State) bool { return s.RenderedPath != "" },
			execute:     e.renderVideo,
		},
		{
			name:        "finalize",
			description: "Adding metadata",
			done:        func(s *run.State) bool { return s.FinalPath != "" },
			execute:     e.finalize,
		},
	}
}

// Run executes every outstanding step in order, saving state after each one.
func (e *Engine) Run(ctx context.Context, state *run.State) error {
	if err := e.verifyInputs(state); err != nil {
		return err
	}

	for i, s := range e.steps() {
		if s.done(state) {
			slog.Debug("step already complete", "step", i+1, "name", s.name)
			continue
		}
		e.progress(i+1, s.description)
		slog.Info("running step", "step", i+1, "name", s.name, "run", state.ID)

		if err := s.execute(ctx, state); err != nil {
			return &StepError{Step: i + 1, Name: s.name, Err: err}
		}
		if err := e.store.Save(state); err != nil {
			return &StepError{Step: i + 1, Name: s.name, Err: err}
		}
	}
	return nil
}

func (e *Engine) verifyInputs(state *run.State) error {
	script := state.NarrationScript()
	switch {
	case script == "":
		return &PreconditionError{Field: "script"}
	case e.llm == nil:
		return &PreconditionError{Field: "llm client"}
	case e.speech == nil:
		return &PreconditionError{Field: "speech provider"}
	case e.resolver == nil:
		return &PreconditionError{Field: "stock resolver"}
	case e.render == nil:
		return &PreconditionError{Field: "render engine"}
	case e.downloader == nil:
		return &PreconditionError{Field: "asset downloader"}
	}
	return nil
}

func (e *Engine) generateTempAudio(ctx context.Context, state *run.State) error {
	path, err := e.speech.Synthesize(ctx, state.NarrationScript(), e.dir.TempAudioPath())
	if err != nil {
		return &ConnectionError{Service: "speech synthesis", Err: err}
	}
	state.TempAudioPath = path
	return nil
}

func (e *Engine) normalizeAudio(ctx context.Context, state *run.State) error {
	if err := e.render.AdjustAudioSpeed(ctx, state.TempAudioPath, e.dir.AudioPath(), e.audioSpeed); err != nil {
		return err
	}
	duration, err := e.render.MediaDuration(ctx, e.dir.AudioPath())
	if err != nil {
		return err
	}
	state.AudioPath = e.dir.AudioPath()
	state.VoiceDuration = duration
	return nil
}

func (e *Engine) timeCaptions(ctx context.Context, state *run.State) error {
	transcriber := e.transcriber
	if transcriber == nil {
		transcriber = transcribe.NewEstimator(state.NarrationScript(), e.wordsPerMinute)
	}

	words, err := transcriber.Transcribe(ctx, state.AudioPath)
	if err != nil {
		return &ConnectionError{Service: "transcription", Err: err}
	}
	if len(words) == 0 {
		return fmt.Errorf("transcription produced no words")
	}

	caps := captions.Time(words, captions.MaxFragmentSeconds(state.Vertical))
	if err := captions.Validate(caps); err != nil {
		return err
	}
	state.Captions = caps
	return nil
}

func (e *Engine) planQueries(ctx context.Context, state *run.State) error {
	queries, err := e.llm.SearchQueries(ctx, state.Captions)
	if err != nil {
		return &ConnectionError{Service: "query planning", Err: err}
	}
	if len(queries) == 0 {
		return fmt.Errorf("query planner returned no segments")
	}
	state.Queries = alignQueries(state.Captions, queries)
	return nil
}

// alignQueries maps planner segments onto caption windows one to one. A
// window the planner skipped, or answered with no queries, falls back to the
// caption text itself as the search phrase.
func alignQueries(caps []captions.TimedCaption, planned []captions.TimedQueries) []captions.TimedQueries {
	aligned := make([]captions.TimedQueries, len(caps))
	for i, cap := range caps {
		aligned[i] = captions.TimedQueries{Start: cap.Start, End: cap.End}
		if queries := plannedFor(planned, cap); len(queries) > 0 {
			aligned[i].Queries = queries
			continue
		}
		slog.Warn("planner left a segment without queries, using the caption text",
			"start", cap.Start, "end", cap.End)
		aligned[i].Queries = []string{cap.Text}
	}
	return aligned
}

func plannedFor(planned []captions.TimedQueries, cap captions.TimedCaption) []string {
	mid := (cap.Start + cap.End) / 2
	for _, segment := range planned {
		if mid >= segment.Start && mid < segment.End {
			return segment.Queries
		}
	}
	return nil
}

// resolveFootage picks one clip per segment. A segment whose queries all
// come up empty is recorded with an empty URL so the run can still finish
// with the remaining footage.
func (e *Engine) resolveFootage(ctx context.Context, state *run.State) error {
	used := stock.NewUsedSet()
	assets := make([]captions.TimedAsset, 0, len(state.Queries))

	for _, segment := range state.Queries {
		var url string
		for _, query := range queryOrder(segment.Queries, e.mostSpecificFirst) {
			if resolved, ok := e.resolver.Resolve(ctx, query, !state.Vertical, used); ok {
				url = resolved
				break
			}
		}
		if url == "" {
			slog.Warn("no footage found for segment",
				"start", segment.Start, "end", segment.End, "queries", segment.Queries)
		}
		assets = append(assets, captions.TimedAsset{
			Start: segment.Start,
			End:   segment.End,
			URL:   url,
		})
	}

	state.Assets = assets
	return nil
}

func (e *Engine) chooseMusic(ctx context.Context, state *run.State) error {
	if state.MusicName == "" {
		return nil
	}
	if e.library == nil {
		return &PreconditionError{Field: "asset library"}
	}
	path, err := e.library.Lookup(ctx, state.MusicName)
	if err != nil {
		return err
	}
	state.MusicPath = path
	return nil
}

func (e *Engine) prepareBackgroundAssets(ctx context.Context, state *run.State) error {
	clips := make([]captions.TimedAsset, 0, len(state.Assets))
	for _, asset := range state.Assets {
		if asset.URL == "" {
			clips = append(clips, asset)
			continue
		}
		localPath, err := e.downloader.Fetch(ctx, asset.URL)
		if err != nil {
			return &ConnectionError{Service: "footage download", Err: err}
		}
		clips = append(clips, captions.TimedAsset{
			Start: asset.Start,
			End:   asset.End,
			URL:   localPath,
		})
	}
	state.LocalClips = clips
	return nil
}

func (e *Engine) prepareCustomAssets(ctx context.Context, state *run.State) error {
	if state.WatermarkName == "" {
		return nil
	}
	if e.library == nil {
		return &PreconditionError{Field: "asset library"}
	}
	path, err := e.library.Lookup(ctx, state.WatermarkName)
	if err != nil {
		return err
	}
	state.WatermarkPath = path
	return nil
}

func (e *Engine) renderVideo(ctx context.Context, state *run.State) error {
	ops := BuildPlan(state, e.styleOpts)
	if err := e.render.Render(ctx, ops, state.VoiceDuration, state.Vertical, e.dir.RenderPath()); err != nil {
		return err
	}
	state.RenderedPath = e.dir.RenderPath()
	return nil
}

// finalize produces the publishable artifacts: title and description, the
// quality-transformed final file, thumbnail, metadata sidecar and the
// catalog record. A catalog failure downgrades to a warning since the video
// itself is already on disk.
func (e *Engine) finalize(ctx context.Context, state *run.State) error {
	meta, err := e.llm.TitleDescription(ctx, state.NarrationScript())
	if err != nil {
		return &ConnectionError{Service: "metadata generation", Err: err}
	}
	state.Title = meta.Title
	state.Description = meta.Description

	finalPath := e.dir.FinalVideoPath(meta.Title)
	if err := e.render.TransformQuality(ctx, state.RenderedPath, finalPath, state.Quality, state.Vertical); err != nil {
		return err
	}
	state.FinalPath = finalPath

	if err := e.render.Thumbnail(ctx, finalPath, e.dir.ThumbnailPath()); err != nil {
		return err
	}
	state.ThumbnailPath = e.dir.ThumbnailPath()

	sidecar := fmt.Sprintf("---Title---\n%s\n\n---Description---\n%s\n", meta.Title, meta.Description)
	if err := os.WriteFile(run.SidecarPath(finalPath), []byte(sidecar), 0644); err != nil {
		return fmt.Errorf("write metadata sidecar: %w", err)
	}

	if e.catalog != nil {
		if err := e.catalog.Insert(catalogRecord(state)); err != nil {
			slog.Warn("catalog persist failed, video is still available", "error", err, "path", finalPath)
		}
	}
	return nil
}

func catalogRecord(state *run.State) catalog.Record {
	orientation := "landscape"
	if state.Vertical {
		orientation = "vertical"
	}

	usedVideos := make(map[string]catalog.Clip, len(state.Assets))
	for i, asset := range state.Assets {
		if asset.URL == "" {
			continue
		}
		usedVideos[fmt.Sprintf("clip_%d", i+1)] = catalog.Clip{
			Source:    asset.URL,
			StartTime: asset.Start,
			EndTime:   asset.End,
		}
	}

	return catalog.Record{
		ID: state.ID,
		Data: catalog.Entry{
			GenerateVidID:  state.ID,
			Thumbnail:      state.ThumbnailPath,
			GeneratedVideo: state.FinalPath,
			UsedScript:     state.NarrationScript(),
			Orientation:    orientation,
			Title:          state.Title,
			Description:    state.Description,
			UsedVideos:     usedVideos,
		},
	}
}

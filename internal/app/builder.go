package app

import (
	"context"
	"fmt"

	"storyreel/internal/catalog"
	"storyreel/internal/llm"
	"storyreel/internal/render"
	"storyreel/internal/speech"
	"storyreel/internal/speech/elevenlabs"
	"storyreel/internal/stock"
	"storyreel/internal/stock/local"
	"storyreel/internal/stock/pexels"
	"storyreel/internal/stock/pixabay"
	"storyreel/internal/stock/unsplash"
	"storyreel/internal/storage"
	"storyreel/internal/transcribe"
	"storyreel/internal/uploader"
	"storyreel/pkg/config"
	"storyreel/pkg/prompts"
)

// BuildService assembles the production service from configuration. Optional
// pieces (remote tts, whisper, gcs, youtube) degrade to local fallbacks or
// stay nil when their keys are absent.
func BuildService(ctx context.Context, cfg *config.Config) (*Service, error) {
	p, err := prompts.Load()
	if err != nil {
		return nil, err
	}

	llmClient, err := llm.NewGroqClient(cfg.GroqAPIKey, cfg.Groq.Model, p)
	if err != nil {
		return nil, err
	}

	var speechProvider speech.Provider
	if cfg.ElevenLabsAPIKey != "" {
		speechProvider = elevenlabs.NewClient(elevenlabs.Config{
			APIKey:     cfg.ElevenLabsAPIKey,
			VoiceID:    cfg.ElevenLabs.VoiceID,
			Model:      cfg.ElevenLabs.Model,
			Stability:  cfg.ElevenLabs.Stability,
			Similarity: cfg.ElevenLabs.Similarity,
		})
	} else {
		speechProvider = speech.NewStubProvider(cfg.Pipeline.WordsPerMinute)
	}

	var transcriber transcribe.Transcriber
	if cfg.Whisper.ServerURL != "" {
		transcriber = transcribe.NewWhisperClient(transcribe.WhisperConfig{
			ServerURL: cfg.Whisper.ServerURL,
			Model:     cfg.Whisper.Model,
			Language:  cfg.Pipeline.Language,
		})
	}

	resolver, err := buildResolver(cfg)
	if err != nil {
		return nil, err
	}

	library, err := buildLibrary(ctx, cfg)
	if err != nil {
		return nil, err
	}

	catalogStore, err := catalog.NewStore(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	var ytUploader uploader.Uploader
	if cfg.YouTubeClientID != "" && cfg.YouTubeClientSecret != "" {
		auth := uploader.NewYouTubeAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
		ytUploader = uploader.NewYouTubeUploader(auth)
	}

	return NewService(ServiceOptions{
		Config:      cfg,
		LLM:         llmClient,
		Speech:      speechProvider,
		Transcriber: transcriber,
		Resolver:    resolver,
		Render:      render.NewFFmpegEngine(cfg.Pipeline.CacheDir),
		Library:     library,
		Downloader:  storage.NewDownloader(cfg.Pipeline.CacheDir, nil),
		Catalog:     catalogStore,
		Uploader:    ytUploader,
	}), nil
}

// buildResolver orders footage providers with the configured one first and
// every other keyed provider as fallback.
func buildResolver(cfg *config.Config) (*stock.Resolver, error) {
	available := map[string]stock.Provider{}
	if cfg.PexelsAPIKey != "" {
		available["pexels"] = pexels.NewClient(pexels.Config{APIKey: cfg.PexelsAPIKey})
	}
	if cfg.PixabayAPIKey != "" {
		available["pixabay"] = pixabay.NewClient(pixabay.Config{APIKey: cfg.PixabayAPIKey})
	}
	if cfg.UnsplashAccessKey != "" {
		available["unsplash"] = unsplash.NewClient(unsplash.Config{AccessKey: cfg.UnsplashAccessKey})
	}
	available["local"] = local.NewCatalog(cfg.Assets.DatasetPath)

	primary, ok := available[cfg.Pipeline.Provider]
	if !ok {
		return nil, fmt.Errorf("provider %q is not configured, set its API key", cfg.Pipeline.Provider)
	}

	providers := []stock.Provider{primary}
	for _, name := range []string{"pexels", "pixabay", "unsplash", "local"} {
		if name == cfg.Pipeline.Provider {
			continue
		}
		if p, ok := available[name]; ok {
			providers = append(providers, p)
		}
	}
	return stock.NewResolver(providers...), nil
}

func buildLibrary(ctx context.Context, cfg *config.Config) (storage.AssetLibrary, error) {
	if cfg.GCS.Enabled && cfg.GCSBucket != "" {
		return storage.NewGCSLibrary(ctx, cfg.GCSBucket, cfg.GCS.AssetDir, cfg.Pipeline.CacheDir)
	}

	library := storage.NewLocalLibrary(cfg.Assets.MusicDir)
	if err := library.EnsureDirectory(); err != nil {
		return nil, err
	}
	return library, nil
}

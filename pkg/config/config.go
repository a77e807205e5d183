package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath     = "config.yaml"
	defaultOutputDir      = "./output"
	defaultCacheDir       = "./.cache"
	defaultVideosDir      = "./videos"
	defaultMusicDir       = "./assets/music"
	defaultDatasetPath    = "./assets/dataset_local.json"
	defaultCatalogPath    = "./videos/catalog.json"
	defaultGroqModel      = "llama-3.3-70b-versatile"
	defaultVoiceID        = "JBFqnCBsd6RMkjVDRZzb"
	defaultVoiceModel     = "eleven_multilingual_v2"
	defaultWhisperURL     = "http://localhost:9000"
	defaultProvider       = "pexels"
	defaultLanguage       = "English"
	defaultQuality        = "HD"
	defaultTextPosition   = "Middle"
	defaultPrivacyStatus  = "private"
	defaultTokenPath      = "./youtube_token.json"
	defaultFontName       = "Montserrat Black"
	defaultFontSize       = 96
	defaultWordsPerMinute = 150.0
	defaultStability      = 0.5
	defaultSimilarity     = 0.5
)

type Config struct {
	GroqAPIKey          string
	ElevenLabsAPIKey    string
	PexelsAPIKey        string
	PixabayAPIKey       string
	UnsplashAccessKey   string
	YouTubeClientID     string
	YouTubeClientSecret string
	YouTubeTokenPath    string
	GCSBucket           string
	GCPProject          string

	Groq       GroqConfig       `yaml:"groq"`
	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs"`
	Whisper    WhisperConfig    `yaml:"whisper"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Captions   CaptionsConfig   `yaml:"captions"`
	Assets     AssetsConfig     `yaml:"assets"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	GCS        GCSConfig        `yaml:"gcs"`
}

type GroqConfig struct {
	Model string `yaml:"model"`
}

type ElevenLabsConfig struct {
	VoiceID    string  `yaml:"voice_id"`
	Model      string  `yaml:"model"`
	Stability  float64 `yaml:"stability"`
	Similarity float64 `yaml:"similarity"`
}

type WhisperConfig struct {
	ServerURL string `yaml:"server_url"`
	Model     string `yaml:"model"`
}

type PipelineConfig struct {
	OutputDir         string  `yaml:"output_dir"`
	CacheDir          string  `yaml:"cache_dir"`
	VideosDir         string  `yaml:"videos_dir"`
	Provider          string  `yaml:"provider"` // "pexels", "pixabay", "unsplash" or "local"
	Language          string  `yaml:"language"`
	Quality           string  `yaml:"quality"`
	TextPosition      string  `yaml:"text_position"`
	MostSpecificFirst bool    `yaml:"most_specific_first"`
	WordsPerMinute    float64 `yaml:"words_per_minute"`
}

type CaptionsConfig struct {
	FontName string `yaml:"font_name"`
	FontSize int    `yaml:"font_size"`
}

type AssetsConfig struct {
	MusicDir    string `yaml:"music_dir"`
	DatasetPath string `yaml:"dataset_path"`
	Watermark   string `yaml:"watermark"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type YouTubeConfig struct {
	DefaultTags   []string `yaml:"default_tags"`
	PrivacyStatus string   `yaml:"privacy_status"`
}

type GCSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	AssetDir string `yaml:"asset_dir"`
}

func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GroqAPIKey:          os.Getenv("GROQ_API_KEY"),
		ElevenLabsAPIKey:    os.Getenv("ELEVENLABS_API_KEY"),
		PexelsAPIKey:        os.Getenv("PEXELS_API_KEY"),
		PixabayAPIKey:       os.Getenv("PIXABAY_API_KEY"),
		UnsplashAccessKey:   os.Getenv("UNSPLASH_ACCESS_KEY"),
		YouTubeClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		YouTubeTokenPath:    getEnvOrDefault("YOUTUBE_TOKEN_PATH", defaultTokenPath),
		GCSBucket:           os.Getenv("GCS_BUCKET"),
		GCPProject:          os.Getenv("GCP_PROJECT"),
	}

	loadYAMLConfig(cfg)
	applyDefaults(cfg)

	if err := resolveSecrets(ctx, cfg); err != nil {
		slog.Warn("Secret resolution failed, continuing with env keys", "error", err)
	}

	return cfg, nil
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	applyGroqDefaults(cfg)
	applyElevenLabsDefaults(cfg)
	applyWhisperDefaults(cfg)
	applyPipelineDefaults(cfg)
	applyCaptionsDefaults(cfg)
	applyAssetsDefaults(cfg)
	applyCatalogDefaults(cfg)
	applyYouTubeDefaults(cfg)
}

func applyGroqDefaults(cfg *Config) {
	if cfg.Groq.Model == "" {
		cfg.Groq.Model = defaultGroqModel
	}
}

func applyElevenLabsDefaults(cfg *Config) {
	if cfg.ElevenLabs.VoiceID == "" {
		cfg.ElevenLabs.VoiceID = defaultVoiceID
	}
	if cfg.ElevenLabs.Model == "" {
		cfg.ElevenLabs.Model = defaultVoiceModel
	}
	if cfg.ElevenLabs.Stability == 0 {
		cfg.ElevenLabs.Stability = defaultStability
	}
	if cfg.ElevenLabs.Similarity == 0 {
		cfg.ElevenLabs.Similarity = defaultSimilarity
	}
}

func applyWhisperDefaults(cfg *Config) {
	if cfg.Whisper.ServerURL == "" {
		cfg.Whisper.ServerURL = defaultWhisperURL
	}
}

func applyPipelineDefaults(cfg *Config) {
	if cfg.Pipeline.OutputDir == "" {
		cfg.Pipeline.OutputDir = defaultOutputDir
	}
	if cfg.Pipeline.CacheDir == "" {
		cfg.Pipeline.CacheDir = defaultCacheDir
	}
	if cfg.Pipeline.VideosDir == "" {
		cfg.Pipeline.VideosDir = defaultVideosDir
	}
	if cfg.Pipeline.Provider == "" {
		cfg.Pipeline.Provider = defaultProvider
	}
	if cfg.Pipeline.Language == "" {
		cfg.Pipeline.Language = defaultLanguage
	}
	if cfg.Pipeline.Quality == "" {
		cfg.Pipeline.Quality = defaultQuality
	}
	if cfg.Pipeline.TextPosition == "" {
		cfg.Pipeline.TextPosition = defaultTextPosition
	}
	if cfg.Pipeline.WordsPerMinute == 0 {
		cfg.Pipeline.WordsPerMinute = defaultWordsPerMinute
	}
}

func applyCaptionsDefaults(cfg *Config) {
	if cfg.Captions.FontName == "" {
		cfg.Captions.FontName = defaultFontName
	}
	if cfg.Captions.FontSize == 0 {
		cfg.Captions.FontSize = defaultFontSize
	}
}

func applyAssetsDefaults(cfg *Config) {
	if cfg.Assets.MusicDir == "" {
		cfg.Assets.MusicDir = defaultMusicDir
	}
	if cfg.Assets.DatasetPath == "" {
		cfg.Assets.DatasetPath = defaultDatasetPath
	}
}

func applyCatalogDefaults(cfg *Config) {
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = defaultCatalogPath
	}
}

func applyYouTubeDefaults(cfg *Config) {
	if len(cfg.YouTube.DefaultTags) == 0 {
		cfg.YouTube.DefaultTags = []string{"shorts", "stories", "facts"}
	}
	if cfg.YouTube.PrivacyStatus == "" {
		cfg.YouTube.PrivacyStatus = defaultPrivacyStatus
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath     = "config.yaml"
	defaultProvider       = ProviderGemini
	defaultGeminiModel    = "gemini-2.5-flash"
	defaultGeminiBackend  = "gemini"
	defaultGeminiLocation = "us-central1"
	defaultGroqModel      = "llama-3.3-70b-versatile"
	defaultOutputDir      = "./output"
	defaultGCSPrefix      = "songs"
	defaultUsageFile      = ".songcraft_usage"
)

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

type Config struct {
	GeminiAPIKey string
	GroqAPIKey   string
	GCPProject   string
	GCSBucket    string

	Provider string         `yaml:"provider"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Groq     GroqConfig     `yaml:"groq"`
	Prompts  PromptsConfig  `yaml:"prompts"`
	Output   OutputConfig   `yaml:"output"`
	GCS      GCSConfig      `yaml:"gcs"`
	Usage    UsageConfig    `yaml:"usage"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

type GeminiConfig struct {
	Model    string `yaml:"model"`
	Backend  string `yaml:"backend"` // "gemini" or "vertex"
	Location string `yaml:"location"`
	// Secret Manager resource name, e.g.
	// projects/my-project/secrets/gemini-api-key/versions/latest
	APIKeySecret string `yaml:"api_key_secret"`
}

type GroqConfig struct {
	Model string `yaml:"model"`
}

type PromptsConfig struct {
	Path string `yaml:"path"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type GCSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Prefix  string `yaml:"prefix"`
}

type UsageConfig struct {
	DailyLimit int    `yaml:"daily_limit"`
	File       string `yaml:"file"`
}

// DefaultsConfig preselects values in the interactive form.
type DefaultsConfig struct {
	Genre       string `yaml:"genre"`
	Emotion     string `yaml:"emotion"`
	Structure   string `yaml:"structure"`
	SoundEngine string `yaml:"sound_engine"`
	ImageStyle  string `yaml:"image_style"`
	Language    string `yaml:"language"`
}

// secretReader resolves a Secret Manager version to its payload.
type secretReader func(ctx context.Context, name string) (string, error)

func Load(ctx context.Context) (*Config, error) {
	return load(ctx, accessSecret)
}

func load(ctx context.Context, readSecret secretReader) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GeminiAPIKey: getEnvOrDefault("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		GCPProject:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GCSBucket:    os.Getenv("GCS_BUCKET"),
	}

	if err := loadYAMLConfig(cfg, defaultConfigPath); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.GeminiAPIKey == "" && cfg.Gemini.APIKeySecret != "" {
		key, err := readSecret(ctx, cfg.Gemini.APIKeySecret)
		if err != nil {
			slog.Warn("Failed to read API key from Secret Manager", "secret", cfg.Gemini.APIKeySecret, "error", err)
		} else {
			cfg.GeminiAPIKey = key
		}
	}

	return cfg, nil
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("No config.yaml found, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderGroq:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	switch c.Gemini.Backend {
	case "gemini", "vertex":
	default:
		return fmt.Errorf("unknown gemini backend %q", c.Gemini.Backend)
	}
	if c.Usage.DailyLimit < 0 {
		return fmt.Errorf("usage.daily_limit must not be negative, got %d", c.Usage.DailyLimit)
	}
	return nil
}

// UsesVertex reports whether Gemini requests go through Vertex AI.
func (c *Config) UsesVertex() bool {
	return c.Gemini.Backend == "vertex"
}

func applyDefaults(cfg *Config) {
	if cfg.Provider == "" {
		cfg.Provider = defaultProvider
	}
	applyGeminiDefaults(cfg)
	applyGroqDefaults(cfg)
	applyOutputDefaults(cfg)
	applyGCSDefaults(cfg)
	applyUsageDefaults(cfg)
}

func applyGeminiDefaults(cfg *Config) {
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = defaultGeminiModel
	}
	if cfg.Gemini.Backend == "" {
		cfg.Gemini.Backend = defaultGeminiBackend
	}
	if cfg.Gemini.Location == "" {
		cfg.Gemini.Location = defaultGeminiLocation
	}
}

func applyGroqDefaults(cfg *Config) {
	if cfg.Groq.Model == "" {
		cfg.Groq.Model = defaultGroqModel
	}
}

func applyOutputDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
}

func applyGCSDefaults(cfg *Config) {
	if cfg.GCS.Prefix == "" {
		cfg.GCS.Prefix = defaultGCSPrefix
	}
}

func applyUsageDefaults(cfg *Config) {
	if cfg.Usage.File == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			cfg.Usage.File = defaultUsageFile
			return
		}
		cfg.Usage.File = filepath.Join(home, defaultUsageFile)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

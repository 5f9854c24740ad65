package app

import (
	"context"
	"fmt"
	"log/slog"

	"songcraft/internal/gemini"
	"songcraft/internal/llm"
	"songcraft/internal/llm/groq"
	"songcraft/internal/songwriter"
	"songcraft/internal/storage"
	"songcraft/internal/usage"
	"songcraft/pkg/config"
	"songcraft/pkg/prompts"
)

// BuildService wires the configured backend, usage guard and store into a
// Service. Missing API keys are not an error here; they surface on the
// first request.
func BuildService(ctx context.Context, cfg *config.Config) (*Service, error) {
	p, err := loadPrompts(cfg)
	if err != nil {
		return nil, err
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	tracker := usage.NewTracker(cfg.Usage.File, cfg.Usage.DailyLimit)

	writer := songwriter.New(backend, p,
		songwriter.WithUsage(tracker),
		songwriter.WithLogger(slog.Default()),
	)

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewService(ServiceOptions{
		Config:     cfg,
		Songwriter: writer,
		Store:      store,
		Usage:      tracker,
		Close:      closeStore,
	}), nil
}

func loadPrompts(cfg *config.Config) (*prompts.Prompts, error) {
	if cfg.Prompts.Path == "" {
		return prompts.Default(), nil
	}
	p, err := prompts.LoadFrom(cfg.Prompts.Path)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded prompts", "path", cfg.Prompts.Path)
	return p, nil
}

func newBackend(cfg *config.Config) (llm.Backend, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		slog.Debug("Using Gemini backend", "model", cfg.Gemini.Model, "vertex", cfg.UsesVertex())
		return gemini.NewClient(gemini.Config{
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.Gemini.Model,
			Vertex:   cfg.UsesVertex(),
			Project:  cfg.GCPProject,
			Location: cfg.Gemini.Location,
		}), nil
	case config.ProviderGroq:
		slog.Debug("Using Groq backend", "model", cfg.Groq.Model)
		return groq.NewClient(cfg.GroqAPIKey, cfg.Groq.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, func() error, error) {
	if !cfg.GCS.Enabled {
		return storage.NewLocalStorage(cfg.Output.Dir), nil, nil
	}

	gcs, err := storage.NewGCSStorage(ctx, cfg.GCSBucket, cfg.GCS.Prefix)
	if err != nil {
		return nil, nil, err
	}
	return gcs, gcs.Close, nil
}

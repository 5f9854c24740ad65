// Package songwriter asks a text-generation backend for songs and topic
// ideas and turns every failure into a user-facing message.
package songwriter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"songcraft/internal/apierr"
	"songcraft/internal/llm"
	"songcraft/internal/song"
	"songcraft/internal/usage"
	"songcraft/pkg/prompts"
)

const (
	ActionSong  = "generate song details"
	ActionTopic = "generate a random topic"
)

type Client struct {
	backend llm.Backend
	prompts *prompts.Prompts
	usage   *usage.Tracker
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Client)

func WithUsage(t *usage.Tracker) Option {
	return func(c *Client) { c.usage = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(backend llm.Backend, p *prompts.Prompts, opts ...Option) *Client {
	if p == nil {
		p = prompts.Default()
	}
	c := &Client{
		backend: backend,
		prompts: p,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateSong makes one request for a song. Every error it returns is an
// *apierr.Error. An empty topic is not rejected here.
func (c *Client) GenerateSong(ctx context.Context, params song.Parameters) (*song.Result, error) {
	prompt, err := c.prompts.RenderSong(params)
	if err != nil {
		c.logger.Error("Failed to render song prompt", "error", err)
		return nil, apierr.NewUnexpected(ActionSong)
	}

	c.logger.Debug("Generating song", "topic", params.Topic, "genre", params.Genre, "language", params.Language)

	text, err := c.call(ctx, func(ctx context.Context) (string, error) {
		return c.backend.GenerateJSON(ctx, prompt, llm.SongSchema)
	})
	if err != nil {
		c.logger.Error("Error generating song", "error", err)
		return nil, apierr.Classify(err, ActionSong)
	}

	result, err := parseSong(text)
	if err != nil {
		c.logger.Error("Error parsing song response", "error", err)
		c.logger.Debug("Raw song response", "content", text)
		return nil, apierr.NewUnexpected(ActionSong)
	}

	return result, nil
}

// GenerateRandomTopic returns a short topic with quotation marks removed.
func (c *Client) GenerateRandomTopic(ctx context.Context) (string, error) {
	prompt := c.prompts.Topic()

	text, err := c.call(ctx, func(ctx context.Context) (string, error) {
		return c.backend.GenerateText(ctx, prompt)
	})
	if err != nil {
		c.logger.Error("Error generating random topic", "error", err)
		return "", apierr.Classify(err, ActionTopic)
	}

	topic := cleanTopic(text)
	if topic == "" {
		c.logger.Error("Error generating random topic", "error", "blank topic", "content", text)
		return "", apierr.NewUnexpected(ActionTopic)
	}
	return topic, nil
}

func (c *Client) call(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	release, err := c.usage.Reserve(c.now())
	if err != nil {
		return "", err
	}

	text, err := fn(ctx)
	release(err == nil)
	if err != nil {
		return "", err
	}
	return text, nil
}

func parseSong(text string) (*song.Result, error) {
	var raw struct {
		Title       *string `json:"title"`
		Lyrics      *string `json:"lyrics"`
		SoundPrompt *string `json:"soundPrompt"`
		ImagePrompt *string `json:"imagePrompt"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	fields := []struct {
		key   string
		value *string
	}{
		{"title", raw.Title},
		{"lyrics", raw.Lyrics},
		{"soundPrompt", raw.SoundPrompt},
		{"imagePrompt", raw.ImagePrompt},
	}
	for _, f := range fields {
		if f.value == nil {
			return nil, fmt.Errorf("parse response: missing %q", f.key)
		}
	}

	return &song.Result{
		Title:       *raw.Title,
		Lyrics:      *raw.Lyrics,
		SoundPrompt: *raw.SoundPrompt,
		ImagePrompt: *raw.ImagePrompt,
	}, nil
}

func cleanTopic(raw string) string {
	topic := strings.TrimSpace(raw)
	topic = strings.ReplaceAll(topic, `"`, "")
	return strings.TrimSpace(topic)
}

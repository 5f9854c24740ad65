package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"songcraft/internal/llm"
)

const (
	DefaultModel    = "gemini-2.5-flash"
	DefaultLocation = "us-central1"
	mimeTypeJSON    = "application/json"
)

var _ llm.Backend = (*Client)(nil)

var errMissingAPIKey = errors.New("gemini: api key is not set")

// models is the part of genai.Models the client calls.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey   string
	Model    string
	Vertex   bool
	Project  string
	Location string
}

type Client struct {
	cfg Config

	mu     sync.Mutex
	models models
}

// NewClient does not contact the API. The underlying genai client is
// created on the first request so a missing key shows up as a failed
// request rather than a startup error.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Vertex && cfg.Location == "" {
		cfg.Location = DefaultLocation
	}
	return &Client{cfg: cfg}
}

func (c *Client) Model() string {
	return c.cfg.Model
}

func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.call(ctx, prompt, nil)
}

func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema *llm.Schema) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: mimeTypeJSON,
		ResponseSchema:   convertSchema(schema),
	}
	return c.call(ctx, prompt, config)
}

func (c *Client) call(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	m, err := c.client(ctx)
	if err != nil {
		return "", err
	}

	resp, err := m.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	return responseText(resp)
}

func (c *Client) client(ctx context.Context) (models, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.models != nil {
		return c.models, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  c.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.cfg.Vertex {
		cc = &genai.ClientConfig{
			Project:  c.cfg.Project,
			Location: c.cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	} else if c.cfg.APIKey == "" {
		return nil, errMissingAPIKey
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	c.models = client.Models
	return c.models, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", llm.ErrEmptyResponse
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt was blocked by safety filters: %s", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("no response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		if candidate.FinishReason == genai.FinishReasonSafety {
			return "", errors.New("candidate was blocked due to safety")
		}
		return "", fmt.Errorf("no response")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}

	if b.Len() == 0 {
		return "", llm.ErrEmptyResponse
	}
	return b.String(), nil
}

func convertSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        convertType(s.Type),
		Description: s.Description,
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for _, p := range s.Properties {
			out.Properties[p.Name] = convertSchema(p.Schema)
			out.PropertyOrdering = append(out.PropertyOrdering, p.Name)
		}
	}
	return out
}

func convertType(t llm.Type) genai.Type {
	switch t {
	case llm.TypeObject:
		return genai.TypeObject
	case llm.TypeString:
		return genai.TypeString
	default:
		return genai.TypeUnspecified
	}
}

package groq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/conneroisu/groq-go"

	"songcraft/internal/llm"
)

const DefaultModel = "llama-3.3-70b-versatile"

var _ llm.Backend = (*Client)(nil)

var errMissingAPIKey = errors.New("groq: api key is not set")

type Client struct {
	apiKey  string
	model   groq.ChatModel
	baseURL string

	mu     sync.Mutex
	client *groq.Client
}

type Option func(*Client)

// WithBaseURL points the client at a different API root, mostly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func NewClient(apiKey, model string, opts ...Option) *Client {
	if model == "" {
		model = DefaultModel
	}
	c := &Client{
		apiKey: apiKey,
		model:  groq.ChatModel(model),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleUser, Content: prompt},
		},
	})
}

// GenerateJSON uses Groq's JSON mode. The mode only guarantees a JSON
// object, so the schema is spelled out in a system message as well.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema *llm.Schema) (string, error) {
	return c.complete(ctx, groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: schemaInstruction(schema)},
			{Role: groq.RoleUser, Content: prompt},
		},
		ResponseFormat: &groq.ChatResponseFormat{
			Type: "json_object",
		},
	})
}

func (c *Client) complete(ctx context.Context, req groq.ChatCompletionRequest) (string, error) {
	client, err := c.groqClient()
	if err != nil {
		return "", err
	}

	resp, err := client.ChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", llm.ErrEmptyResponse
	}

	return content, nil
}

func (c *Client) groqClient() (*groq.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		return nil, errMissingAPIKey
	}

	var opts []groq.Opts
	if c.baseURL != "" {
		opts = append(opts, groq.WithBaseURL(c.baseURL))
	}

	client, err := groq.NewClient(c.apiKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}
	c.client = client
	return client, nil
}

func schemaInstruction(schema *llm.Schema) string {
	if schema == nil || len(schema.Properties) == 0 {
		return "Respond with a single JSON object."
	}

	var b strings.Builder
	b.WriteString("Respond with a single JSON object with these keys, all required, and no other keys:\n")
	for _, p := range schema.Properties {
		desc := ""
		if p.Schema != nil && p.Schema.Description != "" {
			desc = " " + p.Schema.Description
		}
		typ := llm.TypeString
		if p.Schema != nil {
			typ = p.Schema.Type
		}
		fmt.Fprintf(&b, "- %s (%s):%s\n", p.Name, typ, desc)
	}
	return strings.TrimRight(b.String(), "\n")
}

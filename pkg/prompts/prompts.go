package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"songcraft/internal/song"
)

const defaultPromptsPath = "prompts.yaml"

//go:embed prompts.yaml
var defaultPrompts []byte

// Keys the song template has to ask the model for.
var songKeys = []string{"title", "lyrics", "soundPrompt", "imagePrompt"}

type Prompts struct {
	Song      string `yaml:"song"`
	TopicText string `yaml:"topic"`

	song *template.Template
}

// Default returns the built-in prompt set.
func Default() *Prompts {
	p, err := parse(defaultPrompts)
	if err != nil {
		panic(fmt.Sprintf("embedded prompts: %v", err))
	}
	return p
}

func Load() (*Prompts, error) {
	return LoadFrom(defaultPromptsPath)
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	t, err := template.New("song").Option("missingkey=error").Parse(p.Song)
	if err != nil {
		return nil, fmt.Errorf("failed to parse song template: %w", err)
	}
	p.song = t

	return &p, nil
}

func (p *Prompts) validate() error {
	if strings.TrimSpace(p.Song) == "" {
		return errors.New("song prompt is empty")
	}
	for _, key := range songKeys {
		if !strings.Contains(p.Song, key) {
			return fmt.Errorf("song prompt does not mention %q", key)
		}
	}
	if strings.TrimSpace(p.TopicText) == "" {
		return errors.New("topic prompt is empty")
	}
	return nil
}

// RenderSong fills the song template. The output depends only on params.
func (p *Prompts) RenderSong(params song.Parameters) (string, error) {
	t := p.song
	if t == nil {
		var err error
		t, err = template.New("song").Parse(p.Song)
		if err != nil {
			return "", fmt.Errorf("failed to parse template: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func (p *Prompts) Topic() string {
	return strings.TrimSpace(p.TopicText)
}

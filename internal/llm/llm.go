package llm

import (
	"context"
	"errors"
)

// Backend is a remote text-generation provider. Implementations make
// exactly one request per call and never retry.
type Backend interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string, schema *Schema) (string, error)
}

var ErrEmptyResponse = errors.New("empty response")

type Type string

const (
	TypeObject Type = "object"
	TypeString Type = "string"
)

// Schema is a provider-neutral description of the JSON a model should
// return. Backends translate it to their own request format.
type Schema struct {
	Type        Type
	Description string
	Properties  []Property
	Required    []string
}

type Property struct {
	Name   string
	Schema *Schema
}

func (s *Schema) Property(name string) (*Schema, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

var SongSchema = &Schema{
	Type: TypeObject,
	Properties: []Property{
		{Name: "title", Schema: &Schema{Type: TypeString, Description: "The title of the song."}},
		{Name: "lyrics", Schema: &Schema{Type: TypeString, Description: "The complete lyrics of the song, with structural markers like [Verse] and [Chorus]."}},
		{Name: "soundPrompt", Schema: &Schema{Type: TypeString, Description: "A detailed prompt for a text-to-sound generation model."}},
		{Name: "imagePrompt", Schema: &Schema{Type: TypeString, Description: "A detailed prompt for a text-to-image generation model for cover art."}},
	},
	Required: []string{"title", "lyrics", "soundPrompt", "imagePrompt"},
}

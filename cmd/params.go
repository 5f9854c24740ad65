package cmd

import (
	"fmt"
	"log/slog"

	"songcraft/internal/song"
	"songcraft/pkg/config"
)

type paramFlags struct {
	topic       string
	genre       string
	emotion     string
	structure   string
	soundEngine string
	imageStyle  string
	language    string
}

// defaultParameters starts from the built-in choices and applies the
// config file's preferences. Unknown values are ignored with a warning.
func defaultParameters(d config.DefaultsConfig) song.Parameters {
	p := song.DefaultParameters()
	flags := paramFlags{
		genre:       d.Genre,
		emotion:     d.Emotion,
		structure:   d.Structure,
		soundEngine: d.SoundEngine,
		imageStyle:  d.ImageStyle,
		language:    d.Language,
	}

	for _, one := range flags.split() {
		if err := one.apply(&p); err != nil {
			slog.Warn("Ignoring config default", "error", err)
		}
	}
	return p
}

// split returns one paramFlags per non-empty choice so they can be applied
// independently.
func (f paramFlags) split() []paramFlags {
	var out []paramFlags
	for _, one := range []paramFlags{
		{genre: f.genre},
		{emotion: f.emotion},
		{structure: f.structure},
		{soundEngine: f.soundEngine},
		{imageStyle: f.imageStyle},
		{language: f.language},
	} {
		if one != (paramFlags{}) {
			out = append(out, one)
		}
	}
	return out
}

// apply overrides p with every flag that was given. p is left untouched
// for a flag that fails to parse.
func (f paramFlags) apply(p *song.Parameters) error {
	if f.topic != "" {
		p.Topic = f.topic
	}
	if f.genre != "" {
		v, err := song.ParseGenre(f.genre)
		if err != nil {
			return err
		}
		p.Genre = v
	}
	if f.emotion != "" {
		v, err := song.ParseEmotion(f.emotion)
		if err != nil {
			return err
		}
		p.Emotion = v
	}
	if f.structure != "" {
		v, err := song.ParseStructure(f.structure)
		if err != nil {
			return err
		}
		p.Structure = v
	}
	if f.soundEngine != "" {
		v, err := song.ParseSoundEngine(f.soundEngine)
		if err != nil {
			return err
		}
		p.SoundEngine = v
	}
	if f.imageStyle != "" {
		v, err := song.ParseImageStyle(f.imageStyle)
		if err != nil {
			return err
		}
		p.ImageStyle = v
	}
	if f.language != "" {
		v, err := song.ParseLanguage(f.language)
		if err != nil {
			return err
		}
		p.Language = v
	}
	return nil
}

func describe(p song.Parameters) string {
	return fmt.Sprintf("%s · %s · %s · %s", p.Genre, p.Emotion, p.Structure, p.Language)
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"songcraft/internal/app"
	"songcraft/internal/render"
	"songcraft/internal/song"
)

var (
	generateFlags paramFlags
	generateSave  bool
	generateJSON  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a song",
	Long: `Generate a song from a topic. Without --topic an interactive form asks
for the topic and the musical choices, and can suggest a topic for you.`,
	Example: `  songcraft generate -t "rain on a tin roof" -g Folk -e Melancholic
  songcraft generate --topic "city lights" --language Japanese --save`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.topic, "topic", "t", "", "Song topic (opens the form when empty)")
	f.StringVarP(&generateFlags.genre, "genre", "g", "", "Genre, see 'songcraft options'")
	f.StringVarP(&generateFlags.emotion, "emotion", "e", "", "Emotion")
	f.StringVarP(&generateFlags.structure, "structure", "s", "", "Song structure")
	f.StringVar(&generateFlags.soundEngine, "engine", "", "Target music generator")
	f.StringVar(&generateFlags.imageStyle, "image-style", "", "Cover art style")
	f.StringVarP(&generateFlags.language, "language", "l", "", "Lyrics language")
	f.BoolVar(&generateSave, "save", false, "Save the song as JSON and Markdown")
	f.BoolVar(&generateJSON, "json", false, "Print the song as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := loadService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	params := defaultParameters(svc.Config().Defaults)
	if err := generateFlags.apply(&params); err != nil {
		return err
	}

	if generateFlags.topic == "" {
		if err := runSongForm(ctx, svc, &params); err != nil {
			return err
		}
	}

	if err := params.Validate(); err != nil {
		return err
	}

	slog.Debug("Generating song", "topic", params.Topic, "choices", describe(params))

	var result *song.Result
	err = runWithSpinner(ctx, "Writing your song...", func() error {
		var genErr error
		result, genErr = svc.GenerateSong(ctx, params)
		return genErr
	})
	if err != nil {
		return err
	}

	if generateJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode song: %w", err)
		}
		fmt.Println(string(data))
	} else {
		fmt.Println(render.Song(*result))
	}

	if generateSave {
		paths, err := svc.Save(ctx, result)
		if err != nil {
			return fmt.Errorf("save song: %w", err)
		}
		for _, p := range paths {
			fmt.Println(successStyle.Render("✓ Saved " + p))
		}
	}

	return nil
}

func runSongForm(ctx context.Context, svc *app.Service, params *song.Parameters) error {
	var suggest bool
	if err := huh.NewConfirm().
		Title("Suggest a topic?").
		Description("Let the AI come up with something").
		Value(&suggest).
		Run(); err != nil {
		return err
	}

	if suggest {
		var topic string
		err := runWithSpinner(ctx, "Thinking of a topic...", func() error {
			var genErr error
			topic, genErr = svc.SuggestTopic(ctx)
			return genErr
		})
		if err != nil {
			printError(err)
		} else {
			params.Topic = topic
			fmt.Println(render.Topic(topic))
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Topic").
				Description("What is the song about?").
				Placeholder("A lighthouse keeper's lonely vigil").
				Value(&params.Topic).
				Validate(required("Topic")),
		),
		huh.NewGroup(
			huh.NewSelect[song.Genre]().
				Title("Genre").
				Options(huh.NewOptions(song.AllGenres()...)...).
				Height(8).
				Value(&params.Genre),
			huh.NewSelect[song.Emotion]().
				Title("Emotion").
				Options(huh.NewOptions(song.AllEmotions()...)...).
				Value(&params.Emotion),
			huh.NewSelect[song.Structure]().
				Title("Structure").
				Options(huh.NewOptions(song.AllStructures()...)...).
				Value(&params.Structure),
		),
		huh.NewGroup(
			huh.NewSelect[song.SoundEngine]().
				Title("Sound engine").
				Options(huh.NewOptions(song.AllSoundEngines()...)...).
				Value(&params.SoundEngine),
			huh.NewSelect[song.ImageStyle]().
				Title("Image style").
				Options(huh.NewOptions(song.AllImageStyles()...)...).
				Value(&params.ImageStyle),
			huh.NewSelect[song.Language]().
				Title("Language").
				Options(huh.NewOptions(song.AllLanguages()...)...).
				Value(&params.Language),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("cancelled")
		}
		return err
	}
	return nil
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"songcraft/internal/song"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the available genres, emotions and other choices",
	Run: func(cmd *cobra.Command, args []string) {
		printOptions(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}

func printOptions(w io.Writer) {
	groups := []struct {
		title  string
		flag   string
		values []string
	}{
		{"Genres", "--genre", names(song.AllGenres())},
		{"Emotions", "--emotion", names(song.AllEmotions())},
		{"Structures", "--structure", names(song.AllStructures())},
		{"Sound engines", "--engine", names(song.AllSoundEngines())},
		{"Image styles", "--image-style", names(song.AllImageStyles())},
		{"Languages", "--language", names(song.AllLanguages())},
	}

	for i, g := range groups {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf("%s (%s)", g.title, g.flag)))
		_, _ = fmt.Fprintln(w, "  "+strings.Join(g.values, ", "))
	}
}

func names[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// Package render formats songs and messages for the terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"songcraft/internal/song"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	markerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	promptStyle  = lipgloss.NewStyle().Italic(true).PaddingLeft(2)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	topicStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func Song(r song.Result) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(r.Title))
	b.WriteString("\n\n")

	for i, section := range song.Sections(r.Lyrics) {
		if i > 0 {
			b.WriteString("\n")
		}
		if section.Name != "" {
			b.WriteString(markerStyle.Render("[" + section.Name + "]"))
			b.WriteString("\n")
		}
		for _, line := range section.Lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Sound prompt"))
	b.WriteString("\n")
	b.WriteString(promptStyle.Render(r.SoundPrompt))
	b.WriteString("\n\n")
	b.WriteString(headingStyle.Render("Image prompt"))
	b.WriteString("\n")
	b.WriteString(promptStyle.Render(r.ImagePrompt))
	b.WriteString("\n")

	return b.String()
}

func Error(msg string) string {
	return errorStyle.Render("✗ " + msg)
}

func Topic(topic string) string {
	return topicStyle.Render("✓ Topic: ") + topic
}

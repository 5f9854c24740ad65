package song

import (
	"fmt"
	"regexp"
	"strings"
)

// Result is a generated song as returned by the model.
type Result struct {
	Title       string `json:"title"`
	Lyrics      string `json:"lyrics"`
	SoundPrompt string `json:"soundPrompt"`
	ImagePrompt string `json:"imagePrompt"`
}

// Section is a block of lyrics headed by a marker such as "[Verse 1]".
// Lines before the first marker end up in a section with an empty Name.
type Section struct {
	Name  string
	Lines []string
}

func Sections(lyrics string) []Section {
	var sections []Section
	var current *Section

	for _, raw := range strings.Split(lyrics, "\n") {
		line := strings.TrimSpace(raw)
		if name, ok := marker(line); ok {
			sections = append(sections, Section{Name: name})
			current = &sections[len(sections)-1]
			continue
		}
		if current == nil {
			if line == "" {
				continue
			}
			sections = append(sections, Section{})
			current = &sections[len(sections)-1]
		}
		current.Lines = append(current.Lines, line)
	}

	for i := range sections {
		sections[i].Lines = trimBlank(sections[i].Lines)
	}
	return sections
}

// IsMarker reports whether a lyrics line is a section marker.
func IsMarker(line string) bool {
	_, ok := marker(strings.TrimSpace(line))
	return ok
}

func marker(line string) (string, bool) {
	if len(line) < 3 || !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
		return "", false
	}
	name := strings.TrimSpace(line[1 : len(line)-1])
	if name == "" {
		return "", false
	}
	return name, true
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (r Result) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	b.WriteString("## Lyrics\n\n")
	for _, line := range strings.Split(strings.TrimSpace(r.Lyrics), "\n") {
		line = strings.TrimSpace(line)
		if IsMarker(line) {
			fmt.Fprintf(&b, "\n**%s**\n\n", line)
			continue
		}
		if line == "" {
			continue
		}
		b.WriteString(line + "  \n")
	}
	fmt.Fprintf(&b, "\n## Sound Prompt\n\n%s\n", r.SoundPrompt)
	fmt.Fprintf(&b, "\n## Image Prompt\n\n%s\n", r.ImagePrompt)
	return b.String()
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

const maxSlugLength = 60

// Slug turns a title into a file-name friendly string.
func Slug(title string) string {
	s := slugInvalid.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	if s == "" {
		return "untitled"
	}
	return s
}

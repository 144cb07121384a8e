// Package deck loads slide files.
package deck

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Slide is one navigable unit: its source text and the file it came from.
type Slide struct {
	Origin string
	Text   string
}

// NotFoundError reports a missing input file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "File not found: " + e.Path
}

var deckExts = map[string]bool{
	".slides":   true,
	".md":       true,
	".markdown": true,
	".txt":      true,
}

var separator = regexp.MustCompile(`(?m)^-{3,}\r?$`)

// IsDeck reports whether path is split into slides rather than shown whole.
func IsDeck(path string) bool {
	return deckExts[strings.ToLower(filepath.Ext(path))]
}

// Load reads every path in order. Any missing file fails the whole load.
func Load(paths []string) ([]Slide, error) {
	var slides []Slide
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		slides = append(slides, Parse(path, string(data))...)
	}
	return slides, nil
}

// Parse turns the contents of one file into slides.
func Parse(path, text string) []Slide {
	if !IsDeck(path) {
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		return []Slide{{Origin: path, Text: "```" + ext + "\n" + strings.TrimSpace(text) + "\n```"}}
	}
	if strings.HasPrefix(text, "#!") {
		_, rest, _ := strings.Cut(text, "\n")
		text = rest
	}
	parts := separator.Split(text, -1)
	slides := make([]Slide, 0, len(parts))
	for _, part := range parts {
		slides = append(slides, Slide{Origin: path, Text: strings.TrimSpace(part)})
	}
	return slides
}

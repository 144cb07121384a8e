package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/baaaaaaaka/slides/internal/render"
	"github.com/baaaaaaaka/slides/internal/style"
)

// RenderTheme resolves the configured colour names over the default theme.
func (c Config) RenderTheme() (render.Theme, error) {
	theme := render.DefaultTheme()
	fields := []struct {
		key  string
		name string
		dst  *style.Attr
	}{
		{"run", c.Theme.Run, &theme.Run},
		{"demo", c.Theme.Demo, &theme.Demo},
		{"code", c.Theme.Code, &theme.Code},
		{"file", c.Theme.File, &theme.File},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.name) == "" {
			continue
		}
		a, err := style.ParseColor(f.name)
		if err != nil {
			return render.Theme{}, fmt.Errorf("theme.%s: %w", f.key, err)
		}
		*f.dst = a
	}
	return theme, nil
}

// DeckKey identifies a deck by the absolute paths of its files.
func DeckKey(paths []string) string {
	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		parts = append(parts, filepath.Clean(p))
	}
	return strings.Join(parts, string(os.PathListSeparator))
}

func (c Config) Position(key string) int {
	return c.Positions[key]
}

// SetPosition records the slide last shown for a deck. The first slide is
// the default and is not stored.
func (c *Config) SetPosition(key string, index int) {
	if index <= 0 {
		delete(c.Positions, key)
		return
	}
	if c.Positions == nil {
		c.Positions = map[string]int{}
	}
	c.Positions[key] = index
}

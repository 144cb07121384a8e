package config

import "strings"

const CurrentVersion = 1

type Config struct {
	Version int `yaml:"version"`

	// Style names the chroma style used for code blocks.
	Style string `yaml:"style,omitempty"`

	// Shell runs demo blocks.
	Shell string `yaml:"shell,omitempty"`

	// Opener is the command line that opens links, e.g. "xdg-open".
	Opener         string         `yaml:"opener,omitempty"`
	PauseAfterDemo bool           `yaml:"pauseAfterDemo,omitempty"`
	Theme          Theme          `yaml:"theme,omitempty"`
	Positions      map[string]int `yaml:"positions,omitempty"`
}

// Theme holds colour names for the frame borders, one of black, red, green,
// yellow, blue, magenta, cyan, white or default.
type Theme struct {
	Run  string `yaml:"run,omitempty"`
	Demo string `yaml:"demo,omitempty"`
	Code string `yaml:"code,omitempty"`
	File string `yaml:"file,omitempty"`
}

func (c Config) OpenerArgs() []string {
	return strings.Fields(c.Opener)
}

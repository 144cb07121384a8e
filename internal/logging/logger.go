// Package logging builds the presenter's logger. The terminal belongs to the
// presentation, so nothing is logged unless a log file is requested.
package logging

import (
	"fmt"
	"io"
	"os"

	clog "github.com/charmbracelet/log"
)

// New creates a logger writing to w at level.
func New(w io.Writer, level clog.Level) *clog.Logger {
	return clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "slides",
	})
}

// Nop returns a logger that discards everything.
func Nop() *clog.Logger {
	return New(io.Discard, clog.FatalLevel)
}

// Open appends to the file at path. An empty path yields Nop and a no-op
// closer.
func Open(path string, debug bool) (*clog.Logger, io.Closer, error) {
	if path == "" {
		return Nop(), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	level := clog.InfoLevel
	if debug {
		level = clog.DebugLevel
	}
	return New(f, level), f, nil
}

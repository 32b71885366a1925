// Package logging builds the application's zerolog logger. The terminal UI
// owns stdout, so logs go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where and how to log.
type Options struct {
	Level  string
	Format string // "json" or "console"
	File   string // empty = DefaultFile()
}

// New opens the log file and returns a logger writing to it. The returned
// closer closes the file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	path := opts.File
	if path == "" {
		p, err := DefaultFile()
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return NewWriter(f, opts), f, nil
}

// NewWriter returns a logger writing to w.
func NewWriter(w io.Writer, opts Options) zerolog.Logger {
	out := w
	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(out).
		With().
		Timestamp().
		Str("service", "reflectapp").
		Logger().
		Level(parseLevel(opts.Level))
}

// DefaultFile is $XDG_STATE_HOME/reflectapp/reflectapp.log, or
// ~/.local/state/reflectapp/reflectapp.log.
func DefaultFile() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "reflectapp", "reflectapp.log"), nil
}

func parseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

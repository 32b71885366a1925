package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.raw), "level %q", tt.raw)
	}
}

func TestNewWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, Options{Level: "info"})

	log.Debug().Msg("hidden")
	log.Info().Str("endpoint", "/answer").Msg("sent")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "sent", line["message"])
	assert.Equal(t, "/answer", line["endpoint"])
	assert.Equal(t, "reflectapp", line["service"])
}

func TestNewWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, Options{Format: "console"})
	log.Warn().Msg("keepalive failed")
	assert.Contains(t, buf.String(), "keepalive failed")
	assert.Contains(t, buf.String(), "WRN")
}

func TestNew_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	log, closer, err := New(Options{File: path})
	require.NoError(t, err)
	log.Info().Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestDefaultFile_UsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	p, err := DefaultFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reflectapp", "reflectapp.log"), p)
}

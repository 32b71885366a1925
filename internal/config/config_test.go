package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.ServerURL)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, 30*time.Second, cfg.AnswerWait)
	assert.Equal(t, 1, cfg.RetryLimit)
	assert.Equal(t, 30*time.Second, cfg.KeepaliveInterval)
	assert.Equal(t, 5*time.Second, cfg.IntroDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.QuestionDelay)
	assert.Equal(t, "chat_conversation.txt", cfg.DownloadName)
	assert.False(t, cfg.Journal)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("REFLECT_SERVER_URL", "https://reflect.example.com/ ")
	t.Setenv("REFLECT_LANGUAGE", "DE")
	t.Setenv("REFLECT_ANSWER_WAIT", "5s")
	t.Setenv("REFLECT_RETRY_LIMIT", "0")
	t.Setenv("REFLECT_JOURNAL", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://reflect.example.com", cfg.ServerURL)
	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, 5*time.Second, cfg.AnswerWait)
	assert.Equal(t, 0, cfg.RetryLimit)
	assert.True(t, cfg.Journal)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad url", "REFLECT_SERVER_URL", "localhost"},
		{"negative retries", "REFLECT_RETRY_LIMIT", "-1"},
		{"zero wait", "REFLECT_ANSWER_WAIT", "0s"},
		{"bad duration", "REFLECT_INTRO_DELAY", "soon"},
		{"negative delay", "REFLECT_DOWNLOAD_DELAY", "-1s"},
		{"bad log format", "REFLECT_LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("REFLECT_LANGUAGE=et\nREFLECT_RETRY_LIMIT=3\n"), 0o644))

	// Variables already in the environment win.
	t.Setenv("REFLECT_RETRY_LIMIT", "2")
	t.Setenv("REFLECT_LANGUAGE", "")
	os.Unsetenv("REFLECT_LANGUAGE")

	require.NoError(t, LoadEnvFile(path))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "et", cfg.Language)
	assert.Equal(t, 2, cfg.RetryLimit)

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestNormalize_AfterOverride(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Language = " DE "
	cfg.ServerURL = " https://reflect.example.com/ "
	cfg.LogFormat = "Console"
	cfg.Normalize()

	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, "https://reflect.example.com", cfg.ServerURL)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.NoError(t, cfg.Validate())
}

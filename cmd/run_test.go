package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/reflectapp/internal/i18n"
)

// testCommand carries the persistent flags loadConfig reads.
func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().String("env-file", filepath.Join(t.TempDir(), "missing.env"), "")
	c.Flags().String("server", "", "")
	c.Flags().String("lang", "", "")
	c.Flags().String("log-file", "", "")
	c.Flags().Bool("journal", false, "")
	require.NoError(t, c.Flags().Parse(args))
	return c
}

func TestLoadConfig_LangFlagIsNormalized(t *testing.T) {
	cfg, err := loadConfig(testCommand(t, "--lang", " DE "))
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.Language)

	lang, ok := resolveLocale(i18n.Default(), cfg.Language)
	require.True(t, ok)
	assert.Equal(t, i18n.German, lang)
	assert.Equal(t, "Einwilligungserklärung", i18n.Default().Get(lang).ConsentTitle)
}

func TestLoadConfig_ServerFlagOverrides(t *testing.T) {
	cfg, err := loadConfig(testCommand(t, "--server", "https://reflect.example.com/", "--journal"))
	require.NoError(t, err)
	assert.Equal(t, "https://reflect.example.com", cfg.ServerURL)
	assert.True(t, cfg.Journal)

	_, err = loadConfig(testCommand(t, "--server", "ftp://nope"))
	assert.Error(t, err)
}

func TestResolveLocale(t *testing.T) {
	tests := []struct {
		code string
		want i18n.Locale
		ok   bool
	}{
		{"DE", i18n.German, true},
		{" es", i18n.Spanish, true},
		{"et", i18n.Estonian, true},
		{"fr", i18n.Fallback, false},
		{"", i18n.Fallback, false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := resolveLocale(i18n.Default(), tt.code)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

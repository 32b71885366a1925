// Package config loads the client configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the environment driven configuration of the client.
type Config struct {
	// Server
	ServerURL      string        `env:"REFLECT_SERVER_URL" envDefault:"http://localhost:5000"`
	RequestTimeout time.Duration `env:"REFLECT_REQUEST_TIMEOUT" envDefault:"60s"`

	// Conversation
	Language    string        `env:"REFLECT_LANGUAGE" envDefault:"en"`
	AnswerWait  time.Duration `env:"REFLECT_ANSWER_WAIT" envDefault:"30s"`
	RetryLimit  int           `env:"REFLECT_RETRY_LIMIT" envDefault:"1"`
	LocalesFile string        `env:"REFLECT_LOCALES_FILE"` // optional override catalog

	// Keepalive
	KeepaliveInterval time.Duration `env:"REFLECT_KEEPALIVE_INTERVAL" envDefault:"30s"`
	ExitTimeout       time.Duration `env:"REFLECT_EXIT_TIMEOUT" envDefault:"2s"`

	// Display pacing
	IntroDelay    time.Duration `env:"REFLECT_INTRO_DELAY" envDefault:"5s"`
	QuestionDelay time.Duration `env:"REFLECT_QUESTION_DELAY" envDefault:"1500ms"`
	DownloadDelay time.Duration `env:"REFLECT_DOWNLOAD_DELAY" envDefault:"1s"`

	// Transcript
	DownloadDir  string `env:"REFLECT_DOWNLOAD_DIR" envDefault:"."`
	DownloadName string `env:"REFLECT_DOWNLOAD_NAME" envDefault:"chat_conversation.txt"`

	// Logging
	LogLevel  string `env:"REFLECT_LOG_LEVEL" envDefault:"info"`
	LogFile   string `env:"REFLECT_LOG_FILE"` // empty = $XDG_STATE_HOME/reflectapp/reflectapp.log
	LogFormat string `env:"REFLECT_LOG_FORMAT" envDefault:"json"`

	// Request journal
	Journal     bool   `env:"REFLECT_JOURNAL" envDefault:"false"`
	JournalPath string `env:"REFLECT_JOURNAL_PATH"` // empty = default data dir
}

// LoadEnvFile loads variables from a .env file without overriding variables
// that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize trims the server URL and lowercases the language and log format.
// Call it again after overriding fields from flags.
func (c *Config) Normalize() {
	c.ServerURL = strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	c.Language = strings.ToLower(strings.TrimSpace(c.Language))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("REFLECT_SERVER_URL must be an http(s) URL, got %q", c.ServerURL)
	}
	if c.RetryLimit < 0 {
		return fmt.Errorf("REFLECT_RETRY_LIMIT must be >= 0, got %d", c.RetryLimit)
	}
	if c.AnswerWait <= 0 {
		return fmt.Errorf("REFLECT_ANSWER_WAIT must be positive, got %s", c.AnswerWait)
	}
	if c.KeepaliveInterval <= 0 {
		return fmt.Errorf("REFLECT_KEEPALIVE_INTERVAL must be positive, got %s", c.KeepaliveInterval)
	}
	for name, d := range map[string]time.Duration{
		"REFLECT_INTRO_DELAY":    c.IntroDelay,
		"REFLECT_QUESTION_DELAY": c.QuestionDelay,
		"REFLECT_DOWNLOAD_DELAY": c.DownloadDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("REFLECT_LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	if strings.TrimSpace(c.DownloadName) == "" {
		return errors.New("REFLECT_DOWNLOAD_NAME must not be empty")
	}
	return nil
}

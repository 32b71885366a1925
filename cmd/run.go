package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/reflectapp/internal/api"
	"github.com/abhisek/reflectapp/internal/app"
	"github.com/abhisek/reflectapp/internal/config"
	"github.com/abhisek/reflectapp/internal/i18n"
	"github.com/abhisek/reflectapp/internal/keepalive"
	"github.com/abhisek/reflectapp/internal/logging"
	"github.com/abhisek/reflectapp/internal/screens"
	"github.com/abhisek/reflectapp/internal/store"
	"github.com/abhisek/reflectapp/internal/submit"
)

// runtime is what every command that talks to the server needs.
type runtime struct {
	cfg     *config.Config
	log     zerolog.Logger
	client  *api.Client
	catalog *i18n.Catalog
	closers []io.Closer
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		_ = r.closers[i].Close()
	}
}

// loadConfig reads .env, the environment and the flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("server"); v != "" {
		cfg.ServerURL = v
	}
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		cfg.Language = v
	}
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.LogFile = v
	}
	if cmd.Flags().Changed("journal") {
		cfg.Journal, _ = cmd.Flags().GetBool("journal")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup builds the logger, the optional journal, the API client and the
// locale catalog.
func setup(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg}

	log, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
	} else {
		rt.closers = append(rt.closers, closer)
	}
	rt.log = log

	opts := []api.Option{api.WithLogger(log), api.WithTimeout(cfg.RequestTimeout)}
	if cfg.Journal {
		path, err := resolveJournalPath(cmd, cfg.JournalPath)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("resolve journal path: %w", err)
		}
		st, err := store.Open(path)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("open journal: %w", err)
		}
		rt.closers = append(rt.closers, st)
		runID := uuid.NewString()
		opts = append(opts, api.WithJournal(st.EventRepo(), runID))
		log.Info().Str("path", path).Str("run_id", runID).Msg("request journal enabled")
	}
	rt.client = api.New(cfg.ServerURL, opts...)

	rt.catalog, err = i18n.Load(cfg.LocalesFile)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("load locales: %w", err)
	}
	return rt, nil
}

// resolveLocale maps code to the catalog's canonical locale, or to the
// fallback when the catalog has no such locale.
func resolveLocale(catalog *i18n.Catalog, code string) (i18n.Locale, bool) {
	strs, ok := catalog.Lookup(code)
	if !ok {
		return i18n.Fallback, false
	}
	return strs.Locale(), true
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg := rt.cfg

	lang, ok := resolveLocale(rt.catalog, cfg.Language)
	if !ok {
		rt.log.Warn().Str("language", cfg.Language).Msg("unknown language, using fallback")
	}

	deps := &screens.Deps{
		Backend:      rt.client,
		Catalog:      rt.catalog,
		Log:          rt.log,
		Language:     lang,
		AutoLanguage: cmd.Flags().Changed("lang"),
		Submit:       submit.Config{Limit: cfg.RetryLimit, Wait: cfg.AnswerWait},
		Pacing: screens.Pacing{
			Intro:    cfg.IntroDelay,
			Question: cfg.QuestionDelay,
			Download: cfg.DownloadDelay,
		},
		DownloadDir:  cfg.DownloadDir,
		DownloadName: cfg.DownloadName,
	}
	keeper := keepalive.New(rt.client, cfg.KeepaliveInterval, cfg.ExitTimeout, rt.log)

	rt.log.Info().Str("server", cfg.ServerURL).Str("language", string(lang)).Msg("starting")
	return app.Run(cmd.Context(), deps, keeper)
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/reflectapp/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "reflectapp",
	Short:        "Guided reflection chat client",
	Long:         "reflectapp — terminal client for the guided-reflection chat service.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context so an open conversation can be signalled before exit.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("env-file", ".env", "Path to a .env file loaded before the environment is read")
	flags.String("server", "", "Reflection server URL (overrides REFLECT_SERVER_URL)")
	flags.String("lang", "", "Conversation language; skips the language screen (overrides REFLECT_LANGUAGE)")
	flags.String("log-file", "", "Log file path (overrides REFLECT_LOG_FILE)")
	flags.Bool("journal", false, "Record every server request to the journal (overrides REFLECT_JOURNAL)")
	flags.String("journal-path", "", "Path to the journal database (overrides REFLECT_JOURNAL_PATH)")

	rootCmd.AddCommand(transcriptCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(localesCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveJournalPath returns the journal path using --journal-path (highest
// priority), then REFLECT_JOURNAL_PATH, then the default XDG path.
func resolveJournalPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("journal-path"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultJournalPath()
}

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/reflectapp/internal/screens/chat"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Download the transcript of a saved conversation without the TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		out, _ := cmd.Flags().GetString("out")
		if email == "" {
			return errors.New("--email is required")
		}

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		if cmd.Flags().Changed("lang") {
			lang, known := resolveLocale(rt.catalog, rt.cfg.Language)
			if !known {
				return fmt.Errorf("unknown language %q", rt.cfg.Language)
			}
			ok, err := rt.client.SetLanguage(ctx, string(lang))
			if err != nil {
				return fmt.Errorf("set language: %w", err)
			}
			if !ok {
				return fmt.Errorf("server rejected language %q", lang)
			}
		}

		reply, err := rt.client.ResumeSession(ctx, email)
		if err != nil {
			return fmt.Errorf("resume session: %w", err)
		}
		if !reply.Success || reply.StudentData.IsZero() {
			return fmt.Errorf("no saved conversation for %s", email)
		}

		body, err := rt.client.DownloadChat(ctx, reply.StudentData)
		if err != nil {
			return fmt.Errorf("download transcript: %w", err)
		}

		if out == "" {
			out = filepath.Join(rt.cfg.DownloadDir, rt.cfg.DownloadName)
		}
		if err := chat.SaveTranscript(out, body); err != nil {
			return err
		}
		rt.log.Info().Str("path", out).Str("conversation_id", reply.StudentData.ConversationID()).Msg("transcript saved")
		fmt.Printf("Saved transcript of conversation %s (%d responses) to %s\n",
			reply.StudentData.ConversationID(), reply.StudentData.ResponseCount(), out)
		return nil
	},
}

func init() {
	transcriptCmd.Flags().String("email", "", "Email the conversation was started with")
	transcriptCmd.Flags().String("out", "", "Output file (default REFLECT_DOWNLOAD_DIR/REFLECT_DOWNLOAD_NAME)")
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/reflectapp/internal/store"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the recorded server requests",
}

// openJournal opens the journal database named by flags or environment.
func openJournal(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	path, err := resolveJournalPath(cmd, cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("resolve journal path: %w", err)
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return s, nil
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		endpoint, _ := cmd.Flags().GetString("endpoint")

		s, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if endpoint != "" && !strings.HasPrefix(endpoint, "/") {
			endpoint = "/" + endpoint
		}

		ctx := context.Background()
		events, err := s.EventRepo().QueryRequestEvents(ctx, store.QueryOpts{
			Limit:    limit,
			Endpoint: endpoint,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No requests recorded.")
			return nil
		}

		// Header.
		fmt.Printf("%-5s  %-19s  %-16s  %-8s  %-7s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Endpoint", "Request", "Attempt", "Status", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 90))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Printf("%-5d  %-19s  %-16s  %-8s  %-7d  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Endpoint, 16),
				truncate(e.RequestID, 8),
				e.Attempt,
				e.StatusCode,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var journalViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View one recorded request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		e, err := s.EventRepo().GetRequestEvent(ctx, id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		fmt.Printf("ID:        %d\n", e.ID)
		fmt.Printf("Sequence:  %d\n", e.Sequence)
		fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Run:       %s\n", e.RunID)
		fmt.Printf("Request:   %s\n", e.RequestID)
		fmt.Printf("Endpoint:  %s\n", e.Endpoint)
		fmt.Printf("Attempt:   %d\n", e.Attempt)
		fmt.Printf("Status:    %d\n", e.StatusCode)
		fmt.Printf("Latency:   %dms\n", e.LatencyMs)
		fmt.Printf("Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", e.ErrorMessage)
		}
		return nil
	},
}

var journalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show request counts, failures and retries per endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		usage, err := s.EventRepo().UsageByEndpoint(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(usage) == 0 {
			fmt.Println("No requests recorded.")
			return nil
		}

		fmt.Println("Requests by Endpoint")
		fmt.Println(strings.Repeat("─", 64))
		fmt.Printf("%-16s  %6s  %8s  %8s  %10s\n",
			"Endpoint", "Calls", "Failed", "Retries", "Avg Ms")
		fmt.Println(strings.Repeat("─", 64))

		var totalCalls, totalFailed, totalRetries int
		for _, u := range usage {
			totalCalls += u.Calls
			totalFailed += u.Failures
			totalRetries += u.Retries
			fmt.Printf("%-16s  %6d  %8d  %8d  %10d\n",
				truncate(u.Endpoint, 16), u.Calls, u.Failures, u.Retries, u.AvgLatencyMs)
		}

		fmt.Println(strings.Repeat("─", 64))
		fmt.Printf("%-16s  %6d  %8d  %8d\n", "TOTAL", totalCalls, totalFailed, totalRetries)
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	journalListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	journalListCmd.Flags().StringP("endpoint", "e", "", "Filter by endpoint (e.g. answer, start)")

	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalViewCmd)
	journalCmd.AddCommand(journalStatsCmd)
}

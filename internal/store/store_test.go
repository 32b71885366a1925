package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if n <= last {
			t.Fatalf("sequence went from %d to %d", last, n)
		}
		last = n
	}
}

func TestAppendAndQueryRequestEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []RequestEventData{
		{RunID: "run-1", RequestID: "a", Endpoint: "/start", StatusCode: 200, LatencyMs: 40, Success: true},
		{RunID: "run-1", RequestID: "b", Endpoint: "/answer", Attempt: 1, LatencyMs: 30000, ErrorMessage: "context deadline exceeded"},
		{RunID: "run-1", RequestID: "b", Endpoint: "/answer", Attempt: 2, StatusCode: 200, LatencyMs: 900, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendRequestEvent(ctx, e); err != nil {
			t.Fatalf("AppendRequestEvent: %v", err)
		}
	}

	all, err := repo.QueryRequestEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryRequestEvents: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	// Newest first.
	if all[0].Attempt != 2 || !all[0].Success {
		t.Errorf("newest event = %+v, want the successful second attempt", all[0])
	}
	if all[0].Sequence <= all[1].Sequence {
		t.Errorf("sequence not descending: %d, %d", all[0].Sequence, all[1].Sequence)
	}

	answers, err := repo.QueryRequestEvents(ctx, QueryOpts{Endpoint: "/answer", Limit: 1})
	if err != nil {
		t.Fatalf("QueryRequestEvents(endpoint): %v", err)
	}
	if len(answers) != 1 || answers[0].Endpoint != "/answer" {
		t.Fatalf("endpoint filter returned %+v", answers)
	}

	after, err := repo.QueryRequestEvents(ctx, QueryOpts{After: all[1].Sequence})
	if err != nil {
		t.Fatalf("QueryRequestEvents(after): %v", err)
	}
	if len(after) != 1 {
		t.Errorf("after filter returned %d events, want 1", len(after))
	}

	future, err := repo.QueryRequestEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("QueryRequestEvents(from): %v", err)
	}
	if len(future) != 0 {
		t.Errorf("from filter returned %d events, want 0", len(future))
	}
}

func TestGetRequestEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendRequestEvent(ctx, RequestEventData{
		RequestID:    "x",
		Endpoint:     "/end_session",
		StatusCode:   502,
		ErrorMessage: "status 502",
	}); err != nil {
		t.Fatalf("AppendRequestEvent: %v", err)
	}

	got, err := repo.QueryRequestEvents(ctx, QueryOpts{Limit: 1})
	if err != nil || len(got) != 1 {
		t.Fatalf("QueryRequestEvents: %v (%d events)", err, len(got))
	}

	e, err := repo.GetRequestEvent(ctx, got[0].ID)
	if err != nil {
		t.Fatalf("GetRequestEvent: %v", err)
	}
	if e == nil || e.ErrorMessage != "status 502" || e.Success {
		t.Errorf("GetRequestEvent = %+v", e)
	}
	if time.Since(e.Timestamp) > time.Minute {
		t.Errorf("timestamp %v not recent", e.Timestamp)
	}

	missing, err := repo.GetRequestEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("GetRequestEvent(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing id, got %+v", missing)
	}
}

func TestUsageByEndpoint(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []RequestEventData{
		{Endpoint: "/answer", Attempt: 1, LatencyMs: 100},
		{Endpoint: "/answer", Attempt: 2, LatencyMs: 300, Success: true},
		{Endpoint: "/start", LatencyMs: 50, Success: true},
	} {
		if err := repo.AppendRequestEvent(ctx, e); err != nil {
			t.Fatalf("AppendRequestEvent: %v", err)
		}
	}

	usage, err := repo.UsageByEndpoint(ctx)
	if err != nil {
		t.Fatalf("UsageByEndpoint: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(usage))
	}
	answer := usage[0]
	if answer.Endpoint != "/answer" || answer.Calls != 2 || answer.Failures != 1 || answer.Retries != 1 || answer.AvgLatencyMs != 200 {
		t.Errorf("answer usage = %+v", answer)
	}
	if usage[1].Endpoint != "/start" || usage[1].Failures != 0 {
		t.Errorf("start usage = %+v", usage[1])
	}
}

func TestDefaultJournalPath_UsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultJournalPath()
	if err != nil {
		t.Fatalf("DefaultJournalPath: %v", err)
	}
	want := filepath.Join(dir, "reflectapp", "journal.db")
	if p != want {
		t.Errorf("path = %q, want %q", p, want)
	}
}

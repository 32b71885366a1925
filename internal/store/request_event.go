package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// eventRepo implements EventRepo backed by raw SQL and the sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

const requestEventColumns = `id, sequence, timestamp_ms, run_id, request_id, endpoint,
	attempt, status_code, latency_ms, success, error_message`

func (r *eventRepo) AppendRequestEvent(ctx context.Context, data RequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO request_events (sequence, timestamp_ms, run_id, request_id, endpoint,
			attempt, status_code, latency_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum,
		time.Now().UTC().UnixMilli(),
		data.RunID,
		data.RequestID,
		data.Endpoint,
		data.Attempt,
		data.StatusCode,
		data.LatencyMs,
		boolToInt(data.Success),
		data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRequestEvents(ctx context.Context, opts QueryOpts) ([]RequestEvent, error) {
	var (
		where []string
		args  []any
	)
	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		where = append(where, "sequence < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		where = append(where, "timestamp_ms >= ?")
		args = append(args, opts.From.UTC().UnixMilli())
	}
	if !opts.To.IsZero() {
		where = append(where, "timestamp_ms <= ?")
		args = append(args, opts.To.UTC().UnixMilli())
	}
	if opts.Endpoint != "" {
		where = append(where, "endpoint = ?")
		args = append(args, opts.Endpoint)
	}

	q := "SELECT " + requestEventColumns + " FROM request_events"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var events []RequestEvent
	for rows.Next() {
		e, err := scanRequestEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetRequestEvent(ctx context.Context, id int) (*RequestEvent, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+requestEventColumns+" FROM request_events WHERE id = ?", id)
	e, err := scanRequestEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *eventRepo) UsageByEndpoint(ctx context.Context) ([]EndpointUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT endpoint,
			COUNT(*),
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END),
			SUM(CASE WHEN attempt > 1 THEN 1 ELSE 0 END),
			CAST(AVG(latency_ms) AS INTEGER)
		FROM request_events
		GROUP BY endpoint
		ORDER BY endpoint`)
	if err != nil {
		return nil, fmt.Errorf("query endpoint usage: %w", err)
	}
	defer rows.Close()

	var usage []EndpointUsage
	for rows.Next() {
		var u EndpointUsage
		if err := rows.Scan(&u.Endpoint, &u.Calls, &u.Failures, &u.Retries, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan endpoint usage: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequestEvent(s rowScanner) (*RequestEvent, error) {
	var (
		e       RequestEvent
		tsMs    int64
		success int
	)
	err := s.Scan(&e.ID, &e.Sequence, &tsMs, &e.RunID, &e.RequestID, &e.Endpoint,
		&e.Attempt, &e.StatusCode, &e.LatencyMs, &success, &e.ErrorMessage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan request event: %w", err)
	}
	e.Timestamp = time.UnixMilli(tsMs).UTC()
	e.Success = success != 0
	return &e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

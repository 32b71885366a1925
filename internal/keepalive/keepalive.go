// Package keepalive sends the temporary-end signal that lets the server
// persist an unfinished conversation: periodically while the program runs,
// and once more when it exits.
package keepalive

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Defaults.
const (
	DefaultInterval    = 30 * time.Second
	DefaultExitTimeout = 2 * time.Second
)

// Target is the conversation being kept alive.
type Target interface {
	ConversationID() string
	Active() bool
}

// Signaler delivers the end-session signal.
type Signaler interface {
	EndSession(ctx context.Context, conversationID string, temporary bool) error
}

// Keeper decides when to signal and sends the signal best-effort. Failures
// are logged and never retried.
type Keeper struct {
	sig         Signaler
	interval    time.Duration
	exitTimeout time.Duration
	log         zerolog.Logger
}

// New creates a Keeper. Non-positive durations fall back to the defaults.
func New(sig Signaler, interval, exitTimeout time.Duration, log zerolog.Logger) *Keeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if exitTimeout <= 0 {
		exitTimeout = DefaultExitTimeout
	}
	return &Keeper{
		sig:         sig,
		interval:    interval,
		exitTimeout: exitTimeout,
		log:         log.With().Str("component", "keepalive").Logger(),
	}
}

// Interval is the period between keepalive signals.
func (k *Keeper) Interval() time.Duration {
	return k.interval
}

// Due returns the conversation to signal, if t exists and has not ended.
func (k *Keeper) Due(t Target) (string, bool) {
	if t == nil || !t.Active() {
		return "", false
	}
	id := t.ConversationID()
	return id, id != ""
}

// Ping sends one temporary-end signal for id.
func (k *Keeper) Ping(ctx context.Context, id string) error {
	if err := k.sig.EndSession(ctx, id, true); err != nil {
		k.log.Warn().Err(err).Str("conversation_id", id).Msg("keepalive failed")
		return err
	}
	k.log.Debug().Str("conversation_id", id).Msg("keepalive sent")
	return nil
}

// Exit signals t once more before the process terminates, waiting at most
// the exit timeout. It is a no-op for ended or absent conversations.
func (k *Keeper) Exit(t Target) {
	id, ok := k.Due(t)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), k.exitTimeout)
	defer cancel()
	_ = k.Ping(ctx, id)
}

// Package submit sends one user answer to the server and retries it on
// failure or silence, at most Limit times per submission.
package submit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/reflectapp/internal/api"
)

var (
	// ErrTimeout marks an attempt that got no reply within the wait window.
	ErrTimeout = errors.New("no reply within wait window")

	// ErrRetriesExhausted is returned when every allowed attempt failed.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// Answerer sends one /answer request.
type Answerer interface {
	Answer(ctx context.Context, req api.AnswerRequest) (*api.AnswerReply, error)
}

// Config controls the retry policy.
type Config struct {
	// Limit is the number of retries after the first attempt.
	Limit int

	// Wait is how long one attempt may stay silent before it counts as failed.
	Wait time.Duration
}

// DefaultConfig allows one retry after 30 seconds of silence.
func DefaultConfig() Config {
	return Config{Limit: 1, Wait: 30 * time.Second}
}

// Result is a successful submission.
type Result struct {
	Reply *api.AnswerReply

	// CycleID tags every request of the submission (X-Request-ID).
	CycleID string

	// Attempt is the 1-based attempt whose reply won.
	Attempt int

	// Sent is the number of requests made.
	Sent int
}

// Submitter runs submission cycles against an Answerer.
type Submitter struct {
	answerer Answerer
	cfg      Config
	log      zerolog.Logger

	mu   sync.Mutex
	ctrl *Controller
}

// New creates a Submitter.
func New(a Answerer, cfg Config, log zerolog.Logger) *Submitter {
	if cfg.Wait <= 0 {
		cfg.Wait = DefaultConfig().Wait
	}
	s := &Submitter{
		answerer: a,
		cfg:      cfg,
		log:      log.With().Str("component", "submit").Logger(),
		ctrl:     NewController(cfg.Limit),
	}
	s.ctrl.OnTransition = func(from, to State) {
		s.log.Debug().Stringer("from", from).Stringer("to", to).Msg("submission state")
	}
	return s
}

// Busy reports whether a submission is in flight.
func (s *Submitter) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Busy()
}

type attemptResult struct {
	ticket Ticket
	reply  *api.AnswerReply
	err    error
}

// Submit sends req and blocks until a reply wins, the retry budget is spent,
// or ctx is done. Every attempt carries the identical payload. When Submit
// returns, the cycle is closed and requests still in flight are cancelled.
func (s *Submitter) Submit(ctx context.Context, req api.AnswerRequest) (*Result, error) {
	s.mu.Lock()
	ticket, err := s.ctrl.Begin()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	cycleID := uuid.NewString()
	log := s.log.With().Str("cycle", cycleID).Logger()

	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// One slot per possible attempt, so stragglers never block.
	results := make(chan attemptResult, s.cfg.Limit+1)
	send := func(t Ticket) {
		log.Debug().Int("attempt", t.Attempt).Msg("sending answer")
		actx := api.WithTrace(cycleCtx, api.Trace{RequestID: cycleID, Attempt: t.Attempt})
		go func() {
			reply, err := s.answerer.Answer(actx, req)
			results <- attemptResult{ticket: t, reply: reply, err: err}
		}()
	}

	current := ticket
	send(current)
	timer := time.NewTimer(s.cfg.Wait)
	defer timer.Stop()

	var failures []error
	for {
		var (
			outcome Outcome
			next    Ticket
		)

		select {
		case r := <-results:
			if r.err == nil && r.reply == nil {
				r.err = errors.New("empty reply")
			}
			s.mu.Lock()
			if r.err == nil {
				outcome = s.ctrl.Succeed(r.ticket)
			} else {
				outcome, next = s.ctrl.Fail(r.ticket)
			}
			sent := s.ctrl.Sent()
			s.mu.Unlock()

			if outcome == Accept {
				log.Info().Int("attempt", r.ticket.Attempt).Int("sent", sent).Msg("answer accepted")
				return &Result{Reply: r.reply, CycleID: cycleID, Attempt: r.ticket.Attempt, Sent: sent}, nil
			}
			if outcome == Ignored {
				log.Debug().Int("attempt", r.ticket.Attempt).Err(r.err).Msg("ignoring superseded attempt")
				continue
			}
			log.Warn().Int("attempt", r.ticket.Attempt).Err(r.err).Msg("answer attempt failed")
			failures = append(failures, fmt.Errorf("attempt %d: %w", r.ticket.Attempt, r.err))

		case <-timer.C:
			s.mu.Lock()
			outcome, next = s.ctrl.Timeout(current)
			s.mu.Unlock()
			log.Warn().Int("attempt", current.Attempt).Dur("wait", s.cfg.Wait).Msg("answer attempt timed out")
			failures = append(failures, fmt.Errorf("attempt %d: %w", current.Attempt, ErrTimeout))

		case <-ctx.Done():
		}

		if err := ctx.Err(); err != nil {
			s.mu.Lock()
			s.ctrl.Abort()
			s.mu.Unlock()
			return nil, err
		}

		switch outcome {
		case Retry:
			current = next
			timer.Reset(s.cfg.Wait)
			send(current)
		case GiveUp:
			log.Error().Int("failures", len(failures)).Msg("answer failed, retries exhausted")
			return nil, fmt.Errorf("%w: %w", ErrRetriesExhausted, errors.Join(failures...))
		}
	}
}

package submit

import (
	"errors"
	"fmt"
)

// State is the phase of the current submission cycle.
type State int

const (
	Idle State = iota
	Sending
	Retrying
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case Retrying:
		return "retrying"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome is the controller's decision for one event.
type Outcome int

const (
	// Ignored means the event belongs to a closed cycle or a superseded
	// attempt and must have no effect.
	Ignored Outcome = iota

	// Accept means the reply wins and closes the cycle.
	Accept

	// Retry means the identical payload must be sent again.
	Retry

	// GiveUp means the retry budget is spent and the cycle failed.
	GiveUp
)

func (o Outcome) String() string {
	switch o {
	case Accept:
		return "accept"
	case Retry:
		return "retry"
	case GiveUp:
		return "give-up"
	default:
		return "ignored"
	}
}

// ErrBusy is returned when a submission is started while one is in flight.
var ErrBusy = errors.New("a submission is already in flight")

// Ticket identifies one network attempt. Attempt is 1-based.
type Ticket struct {
	Cycle   uint64
	Attempt int
}

// Controller is the retry state machine for answer submissions. It decides,
// it does not act: the caller sends requests and runs timers, then reports
// each event with the attempt's ticket.
//
// Controller is not safe for concurrent use.
type Controller struct {
	limit int
	state State

	cycle        uint64
	attempt      int // attempt the wait window currently belongs to
	attemptsMade int // retries used in this cycle
	sent         int

	// OnTransition, if set, is called on every state change.
	OnTransition func(from, to State)
}

// NewController creates a Controller that allows limit retries per cycle.
func NewController(limit int) *Controller {
	if limit < 0 {
		limit = 0
	}
	return &Controller{limit: limit}
}

// Begin opens a new cycle with a fresh retry budget and returns the ticket
// of its first attempt.
func (c *Controller) Begin() (Ticket, error) {
	if c.Busy() {
		return Ticket{}, ErrBusy
	}
	c.cycle++
	c.attempt = 1
	c.attemptsMade = 0
	c.sent = 1
	c.transition(Sending)
	return c.current(), nil
}

// Succeed reports a well-formed reply for t. A reply from any attempt of the
// open cycle wins.
func (c *Controller) Succeed(t Ticket) Outcome {
	if !c.open(t) {
		return Ignored
	}
	c.attemptsMade = 0
	c.transition(Succeeded)
	return Accept
}

// Fail reports a transport, status or parse failure for t. On Retry the
// returned ticket names the new attempt.
func (c *Controller) Fail(t Ticket) (Outcome, Ticket) {
	if !c.open(t) || t.Attempt != c.attempt {
		return Ignored, Ticket{}
	}
	return c.retryOrGiveUp()
}

// Timeout reports that the wait window of t elapsed without a reply.
func (c *Controller) Timeout(t Ticket) (Outcome, Ticket) {
	return c.Fail(t)
}

// Abort closes the open cycle without a result, for example when the caller
// went away. It is a no-op when idle.
func (c *Controller) Abort() {
	if c.Busy() {
		c.transition(Idle)
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Busy reports whether a cycle is open.
func (c *Controller) Busy() bool {
	return c.state == Sending || c.state == Retrying
}

// AttemptsMade returns the retries used by the current cycle.
func (c *Controller) AttemptsMade() int {
	return c.attemptsMade
}

// Sent returns the number of network attempts of the current cycle.
func (c *Controller) Sent() int {
	return c.sent
}

// Limit returns the number of retries allowed per cycle.
func (c *Controller) Limit() int {
	return c.limit
}

func (c *Controller) retryOrGiveUp() (Outcome, Ticket) {
	c.transition(Retrying)
	if c.attemptsMade >= c.limit {
		c.transition(Failed)
		return GiveUp, Ticket{}
	}
	c.attemptsMade++
	c.attempt++
	c.sent++
	c.transition(Sending)
	return Retry, c.current()
}

func (c *Controller) open(t Ticket) bool {
	return c.Busy() && t.Cycle == c.cycle
}

func (c *Controller) current() Ticket {
	return Ticket{Cycle: c.cycle, Attempt: c.attempt}
}

func (c *Controller) transition(to State) {
	from := c.state
	c.state = to
	if c.OnTransition != nil && from != to {
		c.OnTransition(from, to)
	}
}

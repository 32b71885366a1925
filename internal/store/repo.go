package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit    int       // max results (0 = unlimited)
	After    int64     // sequence > After
	Before   int64     // sequence < Before
	From     time.Time // timestamp >= From
	To       time.Time // timestamp <= To
	Endpoint string    // exact endpoint path match
}

// RequestEventData captures one HTTP request made to the reflection server.
type RequestEventData struct {
	RunID        string
	RequestID    string
	Endpoint     string
	Attempt      int
	StatusCode   int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestEvent is a stored RequestEventData.
type RequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RequestEventData
}

// EndpointUsage aggregates journal events per endpoint.
type EndpointUsage struct {
	Endpoint     string
	Calls        int
	Failures     int
	Retries      int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to journal events.
type EventRepo interface {
	// AppendRequestEvent records one HTTP request.
	AppendRequestEvent(ctx context.Context, data RequestEventData) error

	// QueryRequestEvents returns events newest first.
	QueryRequestEvents(ctx context.Context, opts QueryOpts) ([]RequestEvent, error)

	// GetRequestEvent returns the event with the given id, or nil.
	GetRequestEvent(ctx context.Context, id int) (*RequestEvent, error)

	// UsageByEndpoint aggregates all events per endpoint.
	UsageByEndpoint(ctx context.Context) ([]EndpointUsage, error)
}

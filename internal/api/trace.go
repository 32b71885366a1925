package api

import "context"

// Trace tags an outgoing request. Attempt is 1-based and only meaningful for
// requests that are retried.
type Trace struct {
	RequestID string
	Attempt   int
}

type traceKey struct{}

// WithTrace returns a context whose requests carry t.
func WithTrace(ctx context.Context, t Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// TraceFrom extracts the trace from ctx. Returns the zero Trace if unset.
func TraceFrom(ctx context.Context) Trace {
	if t, ok := ctx.Value(traceKey{}).(Trace); ok {
		return t
	}
	return Trace{}
}

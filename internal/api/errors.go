package api

import (
	"encoding/json"
	"fmt"
)

// StatusError indicates the server answered with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: server returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// MalformedReplyError indicates the reply body is not valid JSON or does not
// match the endpoint's reply schema.
type MalformedReplyError struct {
	Endpoint string
	Content  json.RawMessage
	Err      error
}

func (e *MalformedReplyError) Error() string {
	return fmt.Sprintf("%s: malformed reply: %v", e.Endpoint, e.Err)
}

func (e *MalformedReplyError) Unwrap() error { return e.Err }

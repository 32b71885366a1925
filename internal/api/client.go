// Package api is the JSON-over-HTTP client for the reflection server.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/reflectapp/internal/store"
)

// HeaderRequestID carries the per-request (or per-submission) id.
const HeaderRequestID = "X-Request-ID"

// Endpoint paths.
const (
	PathSetLanguage   = "/set_language"
	PathResumeSession = "/resume_session"
	PathStart         = "/start"
	PathAnswer        = "/answer"
	PathDownloadChat  = "/download-chat"
	PathEndSession    = "/end_session"
)

// Journal receives one event per completed or failed HTTP request.
type Journal interface {
	AppendRequestEvent(ctx context.Context, data store.RequestEventData) error
}

// Client talks to the reflection server.
type Client struct {
	http       *resty.Client
	httpClient *http.Client
	timeout    time.Duration
	log        zerolog.Logger
	journal    Journal
	runID      string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request logging.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithJournal records every request to j, tagged with runID.
func WithJournal(j Journal, runID string) Option {
	return func(c *Client) {
		c.journal = j
		c.runID = runID
	}
}

// WithTimeout bounds every single HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient uses hc as the transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{log: zerolog.Nop()}
	for _, o := range opts {
		o(c)
	}

	var rc *resty.Client
	if c.httpClient != nil {
		rc = resty.NewWithClient(c.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(baseURL, "/"))
	rc.SetHeader("Content-Type", "application/json")
	rc.SetHeader("Accept", "application/json, text/plain")
	rc.SetHeader("User-Agent", "reflectapp")
	if c.timeout > 0 {
		rc.SetTimeout(c.timeout)
	}
	rc.OnBeforeRequest(c.beforeRequest)
	rc.OnAfterResponse(c.afterResponse)
	rc.OnError(c.onError)

	c.http = rc
	return c
}

// SetLanguage selects the conversation language for this client's session.
func (c *Client) SetLanguage(ctx context.Context, language string) (bool, error) {
	raw, err := c.post(ctx, PathSetLanguage, SetLanguageRequest{Language: language})
	if err != nil {
		return false, err
	}
	var reply SuccessReply
	if err := decodeReply(PathSetLanguage, SuccessReplySchema, raw, &reply); err != nil {
		return false, err
	}
	return reply.Success, nil
}

// ResumeSession asks the server for an unfinished conversation by email.
func (c *Client) ResumeSession(ctx context.Context, email string) (*ResumeReply, error) {
	raw, err := c.post(ctx, PathResumeSession, ResumeRequest{Email: email})
	if err != nil {
		return nil, err
	}
	var reply ResumeReply
	if err := decodeReply(PathResumeSession, ResumeReplySchema, raw, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Start opens a new conversation.
func (c *Client) Start(ctx context.Context, name, email string) (*StartReply, error) {
	raw, err := c.post(ctx, PathStart, StartRequest{Name: name, Email: email})
	if err != nil {
		return nil, err
	}
	var reply StartReply
	if err := decodeReply(PathStart, StartReplySchema, raw, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Answer submits one response and returns the server's decision.
func (c *Client) Answer(ctx context.Context, req AnswerRequest) (*AnswerReply, error) {
	raw, err := c.post(ctx, PathAnswer, req)
	if err != nil {
		return nil, err
	}
	var reply AnswerReply
	if err := decodeReply(PathAnswer, AnswerReplySchema, raw, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// DownloadChat returns the rendered transcript for the record.
func (c *Client) DownloadChat(ctx context.Context, rec StudentRecord) ([]byte, error) {
	body, err := rec.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return c.post(ctx, PathDownloadChat, body)
}

// EndSession tells the server the session stopped. A temporary end is a
// persistence hint; the conversation may continue afterwards.
func (c *Client) EndSession(ctx context.Context, conversationID string, temporary bool) error {
	_, err := c.post(ctx, PathEndSession, EndSessionRequest{
		ConversationID: conversationID,
		IsTemporary:    temporary,
	})
	return err
}

// post sends body to endpoint and returns the raw reply of a 2xx response.
func (c *Client) post(ctx context.Context, endpoint string, body any) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	if resp.IsError() {
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode(),
			Body:       truncate(resp.String(), 512),
		}
	}
	return resp.Body(), nil
}

type startedAtKey struct{}

func (c *Client) beforeRequest(_ *resty.Client, r *resty.Request) error {
	t := TraceFrom(r.Context())
	if t.RequestID == "" {
		t.RequestID = uuid.NewString()
	}
	r.SetHeader(HeaderRequestID, t.RequestID)

	ctx := context.WithValue(r.Context(), startedAtKey{}, time.Now())
	r.SetContext(WithTrace(ctx, t))
	return nil
}

func (c *Client) afterResponse(_ *resty.Client, resp *resty.Response) error {
	req := resp.Request
	errMsg := ""
	if resp.IsError() {
		errMsg = fmt.Sprintf("status %d", resp.StatusCode())
	}
	c.record(req, resp.StatusCode(), errMsg)
	return nil
}

func (c *Client) onError(req *resty.Request, err error) {
	c.record(req, 0, err.Error())
}

// record logs the finished request and appends it to the journal.
func (c *Client) record(req *resty.Request, status int, errMsg string) {
	ctx := req.Context()
	t := TraceFrom(ctx)
	var latency time.Duration
	if started, ok := ctx.Value(startedAtKey{}).(time.Time); ok {
		latency = time.Since(started)
	}

	path := req.URL
	if req.RawRequest != nil && req.RawRequest.URL != nil {
		path = req.RawRequest.URL.Path
	}

	ev := c.log.Debug()
	if errMsg != "" {
		ev = c.log.Warn().Str("error", errMsg)
	}
	ev.Str("request_id", t.RequestID).
		Int("attempt", t.Attempt).
		Str("method", req.Method).
		Str("path", path).
		Int("status", status).
		Dur("latency", latency).
		Msg("HTTP client request")

	if c.journal == nil {
		return
	}
	data := store.RequestEventData{
		RunID:        c.runID,
		RequestID:    t.RequestID,
		Endpoint:     path,
		Attempt:      t.Attempt,
		StatusCode:   status,
		LatencyMs:    latency.Milliseconds(),
		Success:      errMsg == "",
		ErrorMessage: errMsg,
	}
	// The request context may already be cancelled by the time a straggler
	// finishes; the journal write must not inherit that.
	if err := c.journal.AppendRequestEvent(context.WithoutCancel(ctx), data); err != nil {
		c.log.Warn().Err(err).Msg("failed to journal request")
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

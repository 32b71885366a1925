// Package session holds the state of one reflection conversation: the
// server-issued record, the question progression and the message log.
//
// A Session is not safe for concurrent use. The TUI mutates it only from its
// update loop.
package session

import (
	"errors"

	"github.com/abhisek/reflectapp/internal/api"
)

var (
	// ErrConversationEnded is returned when a reply arrives after the server
	// already ended the conversation.
	ErrConversationEnded = errors.New("conversation already ended")

	// ErrNotStarted is returned when a reply is applied before start or resume.
	ErrNotStarted = errors.New("session not started")

	// ErrNilReply is returned for a nil server reply.
	ErrNilReply = errors.New("nil reply")
)

// DirectiveKind tells the caller what to render after a reply was applied.
type DirectiveKind int

const (
	// Continue means a question follows.
	Continue DirectiveKind = iota

	// Terminate means the conversation ended with a closing message.
	Terminate
)

func (k DirectiveKind) String() string {
	if k == Terminate {
		return "terminate"
	}
	return "continue"
}

// Directive is the outcome of applying a server reply.
type Directive struct {
	Kind DirectiveKind

	// Text is the next question or, for Terminate, the closing message.
	Text string

	// IsMain is set when the next question is a new main question.
	IsMain bool
}

// Session is one conversation's client-side state.
type Session struct {
	record   api.StudentRecord
	progress Progression
	log      Log
	started  bool
}

// New returns an empty session. It becomes active on Start or Resume.
func New() *Session {
	return &Session{}
}

// Start applies the reply of /start and returns the first question.
func (s *Session) Start(reply *api.StartReply) (Directive, error) {
	if reply == nil {
		return Directive{}, ErrNilReply
	}
	s.started = true
	s.record = reply.StudentData
	s.progress.QuestionIndex = reply.QuestionIndex
	s.progress.Attempt = reply.Attempt
	return Directive{
		Kind:   Continue,
		Text:   reply.Question,
		IsMain: reply.Attempt == 0,
	}, nil
}

// Resume restores a conversation from a previously saved record. The next
// question is the one after the last recorded response.
func (s *Session) Resume(rec api.StudentRecord) {
	s.started = true
	s.record = rec
	s.progress.QuestionIndex = rec.ResponseCount()
	s.progress.Attempt = 0
}

// Advance applies the reply of /answer. The reply's values are taken as is;
// the server is the only source of truth for progression.
func (s *Session) Advance(reply *api.AnswerReply) (Directive, error) {
	if reply == nil {
		return Directive{}, ErrNilReply
	}
	if !s.started {
		return Directive{}, ErrNotStarted
	}
	if s.progress.Ended {
		return Directive{Kind: Terminate}, ErrConversationEnded
	}

	if reply.End {
		s.progress.Ended = true
		return Directive{Kind: Terminate, Text: reply.Message}, nil
	}

	s.record = reply.StudentData
	s.progress.QuestionIndex = reply.QuestionIndex
	s.progress.Attempt = reply.Attempt
	return Directive{
		Kind:   Continue,
		Text:   reply.Question,
		IsMain: reply.Attempt == 0,
	}, nil
}

// AnswerRequest builds the /answer payload for text from the current state.
func (s *Session) AnswerRequest(text string) api.AnswerRequest {
	return api.AnswerRequest{
		StudentData:   s.record,
		QuestionIndex: s.progress.QuestionIndex,
		Attempt:       s.progress.Attempt,
		Response:      text,
	}
}

// Progress returns a copy of the progression state.
func (s *Session) Progress() Progression {
	return s.progress
}

// Record returns the current server record.
func (s *Session) Record() api.StudentRecord {
	return s.record
}

// ConversationID returns the record's conversation id, or "".
func (s *Session) ConversationID() string {
	return s.record.ConversationID()
}

// Started reports whether Start or Resume was applied.
func (s *Session) Started() bool {
	return s.started
}

// Ended reports whether the server ended the conversation.
func (s *Session) Ended() bool {
	return s.progress.Ended
}

// Active reports whether the session exists and has not ended.
func (s *Session) Active() bool {
	return s.started && !s.progress.Ended && s.ConversationID() != ""
}

// Log returns the message log.
func (s *Session) Log() *Log {
	return &s.log
}

// Post appends the message a directive asks for and returns its position.
func (s *Session) Post(d Directive) int {
	return s.log.Append(Entry{
		Text:           d.Text,
		Role:           RoleQuestion,
		IsMainQuestion: d.Kind == Continue && d.IsMain,
		IsFinalMessage: d.Kind == Terminate,
		QuestionIndex:  s.progress.QuestionIndex,
	})
}

// PostIntro appends a guideline message.
func (s *Session) PostIntro(text string) int {
	return s.post(text, RoleIntro)
}

// PostResponse appends the user's own answer.
func (s *Session) PostResponse(text string) int {
	return s.post(text, RoleResponse)
}

// PostError appends an error message.
func (s *Session) PostError(text string) int {
	return s.post(text, RoleError)
}

func (s *Session) post(text string, role Role) int {
	return s.log.Append(Entry{
		Text:          text,
		Role:          role,
		QuestionIndex: s.progress.QuestionIndex,
	})
}

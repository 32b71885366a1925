// Package screens holds what the conversation screens share: the server
// backend, the locale catalog and the runtime settings.
package screens

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/reflectapp/internal/api"
	"github.com/abhisek/reflectapp/internal/i18n"
	"github.com/abhisek/reflectapp/internal/session"
	"github.com/abhisek/reflectapp/internal/submit"
)

// Backend is the reflection server as the screens see it.
type Backend interface {
	SetLanguage(ctx context.Context, language string) (bool, error)
	ResumeSession(ctx context.Context, email string) (*api.ResumeReply, error)
	Start(ctx context.Context, name, email string) (*api.StartReply, error)
	Answer(ctx context.Context, req api.AnswerRequest) (*api.AnswerReply, error)
	DownloadChat(ctx context.Context, rec api.StudentRecord) ([]byte, error)
	EndSession(ctx context.Context, conversationID string, temporary bool) error
}

var _ Backend = (*api.Client)(nil)

// Pacing holds the display delays. They only shape the experience; nothing
// depends on them for correctness.
type Pacing struct {
	Intro    time.Duration // before each guideline message
	Question time.Duration // before the first question and each reply
	Download time.Duration // before the transcript is requested
}

// Deps is shared by all screens.
type Deps struct {
	// Ctx bounds every network call; it is cancelled when the program exits.
	Ctx context.Context

	Backend Backend
	Catalog *i18n.Catalog
	Log     zerolog.Logger

	// Language is preselected on the language screen.
	Language i18n.Locale

	// AutoLanguage skips the language choice and applies Language directly.
	AutoLanguage bool

	Submit submit.Config
	Pacing Pacing

	DownloadDir  string
	DownloadName string
}

// DownloadPath is where the transcript is saved.
func (d *Deps) DownloadPath() string {
	name := d.DownloadName
	if name == "" {
		name = "chat_conversation.txt"
	}
	return filepath.Join(d.DownloadDir, name)
}

// Context returns Ctx, or a background context when unset.
func (d *Deps) Context() context.Context {
	if d.Ctx == nil {
		return context.Background()
	}
	return d.Ctx
}

// SessionHolder is implemented by screens that own a conversation, so the
// lifecycle hooks can reach it.
type SessionHolder interface {
	Session() *session.Session
}

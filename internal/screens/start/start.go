// Package start collects name and email, then resumes the user's unfinished
// conversation or starts a new one.
package start

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/reflectapp/internal/api"
	"github.com/abhisek/reflectapp/internal/i18n"
	"github.com/abhisek/reflectapp/internal/router"
	"github.com/abhisek/reflectapp/internal/screen"
	"github.com/abhisek/reflectapp/internal/screens"
	"github.com/abhisek/reflectapp/internal/screens/chat"
	"github.com/abhisek/reflectapp/internal/session"
	"github.com/abhisek/reflectapp/internal/ui/components"
	"github.com/abhisek/reflectapp/internal/ui/layout"
	"github.com/abhisek/reflectapp/internal/ui/theme"
)

type resumeMsg struct {
	Reply *api.ResumeReply
	Err   error
}

type startMsg struct {
	Reply *api.StartReply
	Err   error
}

const (
	fieldName = iota
	fieldEmail
)

// StartScreen is the name/email form.
type StartScreen struct {
	deps    *screens.Deps
	strings i18n.Strings

	name    components.TextInput
	email   components.TextInput
	focused int
	alert   components.Alert
	pending bool
}

var _ screen.Screen = (*StartScreen)(nil)
var _ screen.KeyHintProvider = (*StartScreen)(nil)
var _ screen.InputCapturer = (*StartScreen)(nil)

// New creates the start form.
func New(deps *screens.Deps, strs i18n.Strings) *StartScreen {
	s := &StartScreen{
		deps:    deps,
		strings: strs,
		name:    components.NewTextInput(strs.NamePlaceholder, strs.NamePlaceholder, 200),
		email:   components.NewTextInput(strs.EmailPlaceholder, strs.EmailPlaceholder, 320),
	}
	s.email.Blur()
	return s
}

func (s *StartScreen) Init() tea.Cmd {
	return s.name.Init()
}

func (s *StartScreen) Title() string {
	return s.strings.StartTitle
}

func (s *StartScreen) CapturesInput() bool {
	return !s.alert.Visible()
}

func (s *StartScreen) KeyHints() []layout.KeyHint {
	if s.alert.Visible() {
		return []layout.KeyHint{{Key: "Enter", Description: "OK"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: s.strings.StartButton},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *StartScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if a, consumed := s.alert.Update(msg); consumed {
		s.alert = a
		return s, nil
	}

	switch msg := msg.(type) {
	case resumeMsg:
		return s.handleResume(msg)
	case startMsg:
		return s.handleStart(msg)
	case tea.KeyMsg:
		if s.pending {
			return s, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			return s, s.toggleFocus()
		case "enter":
			if s.focused == fieldName && s.email.TrimmedValue() == "" {
				return s, s.toggleFocus()
			}
			return s.submit()
		}
	}

	var cmd tea.Cmd
	if s.focused == fieldName {
		s.name, cmd = s.name.Update(msg)
	} else {
		s.email, cmd = s.email.Update(msg)
	}
	return s, cmd
}

func (s *StartScreen) View(width, height int) string {
	if s.alert.Visible() {
		return s.alert.View(width, height)
	}

	fieldWidth := width / 2
	if fieldWidth < 30 {
		fieldWidth = width - 10
	}
	s.name.SetWidth(fieldWidth)
	s.email.SetWidth(fieldWidth)

	startLabel := s.strings.StartButton
	if s.pending {
		startLabel = "…"
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render(s.strings.StartTitle),
		"",
		s.name.View(),
		"",
		s.email.View(),
		"",
		components.NewButton(startLabel, !s.pending, nil).View(),
	)
	return layout.Center(theme.Card.Render(body), width, height)
}

func (s *StartScreen) toggleFocus() tea.Cmd {
	if s.focused == fieldName {
		s.focused = fieldEmail
		s.name.Blur()
		return s.email.Focus()
	}
	s.focused = fieldName
	s.email.Blur()
	return s.name.Focus()
}

// submit validates the form and asks the server for an unfinished session.
func (s *StartScreen) submit() (screen.Screen, tea.Cmd) {
	name, email := s.name.TrimmedValue(), s.email.TrimmedValue()
	if name == "" || email == "" {
		s.alert.Show(s.strings.MissingNameEmail)
		return s, nil
	}

	s.pending = true
	backend, ctx := s.deps.Backend, s.deps.Context()
	return s, func() tea.Msg {
		reply, err := backend.ResumeSession(ctx, email)
		return resumeMsg{Reply: reply, Err: err}
	}
}

func (s *StartScreen) handleResume(msg resumeMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.pending = false
		s.deps.Log.Error().Err(msg.Err).Msg("resume session failed")
		return s, nil
	}

	if msg.Reply.Success {
		sess := session.New()
		sess.Resume(msg.Reply.StudentData)
		s.deps.Log.Info().
			Str("conversation_id", sess.ConversationID()).
			Int("question_index", sess.Progress().QuestionIndex).
			Msg("session resumed")

		opening := chat.Opening{Resumed: true}
		if msg.Reply.Question != "" {
			opening.First = &session.Directive{Kind: session.Continue, Text: msg.Reply.Question, IsMain: true}
		}
		next := chat.New(s.deps, s.strings, sess, opening)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}

	name, email := s.name.TrimmedValue(), s.email.TrimmedValue()
	backend, ctx := s.deps.Backend, s.deps.Context()
	return s, func() tea.Msg {
		reply, err := backend.Start(ctx, name, email)
		return startMsg{Reply: reply, Err: err}
	}
}

func (s *StartScreen) handleStart(msg startMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.pending = false
		s.deps.Log.Error().Err(msg.Err).Msg("start session failed")
		return s, nil
	}

	sess := session.New()
	first, err := sess.Start(msg.Reply)
	if err != nil {
		s.pending = false
		s.deps.Log.Error().Err(err).Msg("start session failed")
		return s, nil
	}
	s.deps.Log.Info().Str("conversation_id", sess.ConversationID()).Msg("session started")

	next := chat.New(s.deps, s.strings, sess, chat.Opening{First: &first, Intro: true})
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

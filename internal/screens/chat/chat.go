// Package chat is the conversation screen. It plays the guideline messages,
// posts questions, submits answers through the retry machine and offers the
// transcript download once the server ends the conversation.
package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/reflectapp/internal/api"
	"github.com/abhisek/reflectapp/internal/i18n"
	"github.com/abhisek/reflectapp/internal/screen"
	"github.com/abhisek/reflectapp/internal/screens"
	"github.com/abhisek/reflectapp/internal/session"
	"github.com/abhisek/reflectapp/internal/submit"
	"github.com/abhisek/reflectapp/internal/ui/components"
	"github.com/abhisek/reflectapp/internal/ui/layout"
	"github.com/abhisek/reflectapp/internal/ui/theme"
)

// Opening describes how the conversation begins.
type Opening struct {
	// First is the first question to post. Nil when the server did not say.
	First *session.Directive

	// Intro plays the localized guideline messages before First.
	Intro bool

	// Resumed posts the resume notice before First.
	Resumed bool
}

type introMsg struct{ index int }

type firstQuestionMsg struct{}

type answerResultMsg struct {
	result *submit.Result
	err    error
}

type revealReplyMsg struct{ reply *api.AnswerReply }

type downloadMsg struct{}

type downloadedMsg struct {
	path string
	err  error
}

// ChatScreen owns the session for the rest of the program.
type ChatScreen struct {
	deps    *screens.Deps
	strings i18n.Strings
	sess    *session.Session
	opening Opening

	submitter *submit.Submitter

	chat     components.ChatLog
	input    components.TextInput
	download components.Button
	alert    components.Alert

	// waiting is set while a pacing delay or a submission is pending.
	waiting     bool
	downloading bool
	status      string

	width int
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.InputCapturer = (*ChatScreen)(nil)
var _ screen.StatusProvider = (*ChatScreen)(nil)
var _ screens.SessionHolder = (*ChatScreen)(nil)

// New creates the chat screen for a started or resumed session.
func New(deps *screens.Deps, strs i18n.Strings, sess *session.Session, opening Opening) *ChatScreen {
	s := &ChatScreen{
		deps:      deps,
		strings:   strs,
		sess:      sess,
		opening:   opening,
		submitter: submit.New(deps.Backend, deps.Submit, deps.Log),
		chat:      components.NewChatLog(),
		input:     components.NewTextInput("", strs.ResponsePlaceholder, 0),
	}
	s.download = components.NewButton(strs.DownloadButton, true, s.startDownload)
	s.download.Hidden = true
	return s
}

func (s *ChatScreen) Init() tea.Cmd {
	if s.opening.Resumed {
		s.sess.PostIntro(s.strings.Resumed(s.sess.Progress().Number()))
	}

	switch {
	case s.opening.Intro && len(s.strings.Intro) > 0:
		s.setWaiting(true)
		s.render()
		return tea.Batch(s.chat.ShowTyping(s.strings.Typing), after(s.deps.Pacing.Intro, introMsg{index: 0}))
	case s.opening.Resumed:
		return s.postFirst()
	default:
		s.setWaiting(true)
		s.render()
		return tea.Batch(s.chat.ShowTyping(s.strings.Typing), after(s.deps.Pacing.Question, firstQuestionMsg{}))
	}
}

func (s *ChatScreen) Title() string {
	return s.strings.StartTitle
}

// Status shows the current question number.
func (s *ChatScreen) Status() string {
	if !s.sess.Started() || s.sess.Ended() {
		return ""
	}
	return s.strings.QuestionLabel(s.sess.Progress().Number())
}

// Session returns the conversation owned by this screen.
func (s *ChatScreen) Session() *session.Session {
	return s.sess
}

func (s *ChatScreen) CapturesInput() bool {
	return !s.sess.Ended() && !s.alert.Visible()
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	if s.alert.Visible() {
		return []layout.KeyHint{{Key: "Enter", Description: "OK"}}
	}
	if s.sess.Ended() {
		return []layout.KeyHint{
			{Key: "Enter", Description: s.strings.DownloadButton},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: s.strings.SendButton},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if a, consumed := s.alert.Update(msg); consumed {
		s.alert = a
		return s, nil
	}

	switch msg := msg.(type) {
	case introMsg:
		s.sess.PostIntro(s.strings.Intro[msg.index])
		s.render()
		if next := msg.index + 1; next < len(s.strings.Intro) {
			return s, after(s.deps.Pacing.Intro, introMsg{index: next})
		}
		return s, after(s.deps.Pacing.Question, firstQuestionMsg{})

	case firstQuestionMsg:
		s.chat.HideTyping()
		return s, s.postFirst()

	case answerResultMsg:
		return s.handleAnswer(msg)

	case revealReplyMsg:
		return s.reveal(msg.reply)

	case downloadMsg:
		return s, s.fetchTranscript()

	case downloadedMsg:
		s.downloading = false
		s.download.Active = true
		if msg.err != nil {
			s.deps.Log.Error().Err(msg.err).Msg("download transcript failed")
			return s, nil
		}
		s.deps.Log.Info().Str("path", msg.path).Msg("transcript saved")
		s.status = msg.path
		if s.strings.DownloadedFmt != "" {
			s.status = s.strings.Downloaded(msg.path)
		}
		return s, nil

	case tea.KeyPressMsg:
		if s.sess.Ended() {
			var cmd tea.Cmd
			s.download, cmd = s.download.Update(msg)
			return s, cmd
		}
		switch msg.String() {
		case "enter":
			return s, s.submit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			s.chat, cmd = s.chat.Update(msg)
			return s, cmd
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	s.chat, cmd = s.chat.Update(msg)
	cmds = append(cmds, cmd)
	s.input, cmd = s.input.Update(msg)
	cmds = append(cmds, cmd)
	return s, tea.Batch(cmds...)
}

func (s *ChatScreen) View(width, height int) string {
	if s.alert.Visible() {
		return s.alert.View(width, height)
	}

	inner := width - 2
	var bottom string
	if s.sess.Ended() {
		bottom = s.download.View()
		if s.status != "" {
			bottom += "\n" + theme.Hint.Render(s.status)
		}
	} else {
		s.input.SetWidth(inner - 4)
		bottom = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Width(inner).
			Render(s.input.View())
	}

	logHeight := height - lipgloss.Height(bottom) - 1
	if logHeight < 1 {
		logHeight = 1
	}
	if inner != s.width {
		s.width = inner
		s.chat.SetSize(inner, logHeight)
		s.render()
	} else {
		s.chat.SetSize(inner, logHeight)
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, s.chat.View(), "", bottom),
	)
}

// Content returns the full rendered log.
func (s *ChatScreen) Content() string {
	return s.chat.Content()
}

// Waiting reports whether a delay or a submission is pending.
func (s *ChatScreen) Waiting() bool {
	return s.waiting
}

// DownloadVisible reports whether the download control is offered.
func (s *ChatScreen) DownloadVisible() bool {
	return !s.download.Hidden
}

// InputVisible reports whether the answer input is shown.
func (s *ChatScreen) InputVisible() bool {
	return !s.sess.Ended()
}

// AlertMessage returns the shown alert text, or "".
func (s *ChatScreen) AlertMessage() string {
	if !s.alert.Visible() {
		return ""
	}
	return s.alert.Message()
}

func (s *ChatScreen) postFirst() tea.Cmd {
	if s.opening.First != nil {
		s.sess.Post(*s.opening.First)
	}
	s.setWaiting(false)
	s.render()
	return s.input.Focus()
}

// submit validates the input and starts one submission cycle.
func (s *ChatScreen) submit() tea.Cmd {
	if s.waiting || s.submitter.Busy() {
		return nil
	}
	text := s.input.TrimmedValue()
	if text == "" {
		s.alert.Show(s.strings.MissingResponse)
		return nil
	}

	req := s.sess.AnswerRequest(text)
	s.sess.PostResponse(text)
	s.input.Reset()
	s.setWaiting(true)
	s.render()

	submitter, ctx := s.submitter, s.deps.Context()
	return tea.Batch(
		s.chat.ShowTyping(s.strings.Typing),
		func() tea.Msg {
			res, err := submitter.Submit(ctx, req)
			return answerResultMsg{result: res, err: err}
		},
	)
}

func (s *ChatScreen) handleAnswer(msg answerResultMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return s, nil
		}
		s.deps.Log.Error().Err(msg.err).Msg("answer failed")
		s.chat.HideTyping()
		s.sess.PostError(s.strings.AnswerFailed)
		s.setWaiting(false)
		s.render()
		return s, s.input.Focus()
	}
	return s, after(s.deps.Pacing.Question, revealReplyMsg{reply: msg.result.Reply})
}

// reveal applies a reply to the session and posts what it asks for.
func (s *ChatScreen) reveal(reply *api.AnswerReply) (screen.Screen, tea.Cmd) {
	s.chat.HideTyping()
	d, err := s.sess.Advance(reply)
	if err != nil {
		s.deps.Log.Error().Err(err).Msg("apply reply failed")
		if !errors.Is(err, session.ErrConversationEnded) {
			s.sess.PostError(s.strings.AnswerFailed)
		}
		s.setWaiting(false)
		s.render()
		return s, nil
	}

	s.sess.Post(d)
	s.setWaiting(false)
	if d.Kind == session.Terminate {
		s.deps.Log.Info().Str("conversation_id", s.sess.ConversationID()).Msg("conversation ended")
		s.input.Blur()
		s.download.Hidden = false
		s.render()
		return s, nil
	}
	s.render()
	return s, s.input.Focus()
}

func (s *ChatScreen) startDownload() tea.Cmd {
	if s.downloading {
		return nil
	}
	s.downloading = true
	s.download.Active = false
	return after(s.deps.Pacing.Download, downloadMsg{})
}

func (s *ChatScreen) fetchTranscript() tea.Cmd {
	backend, ctx := s.deps.Backend, s.deps.Context()
	rec, path := s.sess.Record(), s.deps.DownloadPath()
	return func() tea.Msg {
		body, err := backend.DownloadChat(ctx, rec)
		if err != nil {
			return downloadedMsg{err: err}
		}
		return downloadedMsg{path: path, err: SaveTranscript(path, body)}
	}
}

// SaveTranscript writes body to path, creating the directory if needed.
func SaveTranscript(path string, body []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create download dir: %w", err)
		}
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

func (s *ChatScreen) setWaiting(w bool) {
	s.waiting = w
	s.input.SetEnabled(!w)
}

func (s *ChatScreen) render() {
	s.chat.Render(s.sess.Log(), s.strings)
}

// after delivers msg once d has passed. A zero delay delivers it directly.
func after(d time.Duration, msg tea.Msg) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

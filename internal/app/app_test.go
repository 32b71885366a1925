package app

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/reflectapp/internal/api"
	"github.com/abhisek/reflectapp/internal/i18n"
	"github.com/abhisek/reflectapp/internal/keepalive"
	"github.com/abhisek/reflectapp/internal/screens"
	"github.com/abhisek/reflectapp/internal/screens/chat"
	"github.com/abhisek/reflectapp/internal/session"
)

type fakeBackend struct {
	mu   sync.Mutex
	ends []string
}

func (f *fakeBackend) SetLanguage(context.Context, string) (bool, error) { return true, nil }
func (f *fakeBackend) ResumeSession(context.Context, string) (*api.ResumeReply, error) {
	return &api.ResumeReply{}, nil
}
func (f *fakeBackend) Start(context.Context, string, string) (*api.StartReply, error) {
	return &api.StartReply{}, nil
}
func (f *fakeBackend) Answer(context.Context, api.AnswerRequest) (*api.AnswerReply, error) {
	return &api.AnswerReply{}, nil
}
func (f *fakeBackend) DownloadChat(context.Context, api.StudentRecord) ([]byte, error) {
	return nil, nil
}
func (f *fakeBackend) EndSession(_ context.Context, id string, temporary bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if temporary {
		f.ends = append(f.ends, id)
	}
	return nil
}

func (f *fakeBackend) endCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ends...)
}

func testModel(backend *fakeBackend) (AppModel, *screens.Deps) {
	deps := &screens.Deps{
		Backend:  backend,
		Catalog:  i18n.Default(),
		Log:      zerolog.Nop(),
		Language: i18n.English,
	}
	keeper := keepalive.New(backend, 10*time.Millisecond, time.Second, zerolog.Nop())
	return newAppModel(deps, keeper), deps
}

// withChat replaces the active screen with a chat screen on a started session.
func withChat(t *testing.T, m AppModel, deps *screens.Deps) *session.Session {
	t.Helper()
	sess := session.New()
	_, err := sess.Start(&api.StartReply{
		StudentData: api.NewStudentRecord([]byte(`{"conversation_id":"conv-1"}`)),
		Question:    "Q?",
	})
	require.NoError(t, err)
	m.router.Replace(chat.New(deps, deps.Catalog.Get(i18n.English), sess, chat.Opening{}))
	return sess
}

// runAll executes cmd and every command of a batch, discarding messages.
func runAll(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			runAll(c)
		}
	}
}

func TestApp_CtrlCQuits(t *testing.T) {
	m, _ := testModel(&fakeBackend{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_QQuitsOnlyWithoutTextInput(t *testing.T) {
	m, deps := testModel(&fakeBackend{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	withChat(t, m, deps)
	_, cmd = m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd != nil {
		_, isQuit := cmd().(tea.QuitMsg)
		assert.False(t, isQuit, "q is typed into the answer, not treated as quit")
	}
}

func TestApp_TargetBeforeSession(t *testing.T) {
	m, _ := testModel(&fakeBackend{})
	assert.Nil(t, m.Target())
}

func TestApp_KeepalivePingsActiveSession(t *testing.T) {
	backend := &fakeBackend{}
	m, deps := testModel(backend)

	// No session yet: nothing is sent.
	_, cmd := m.Update(keepaliveMsg{})
	runAll(cmd)
	assert.Empty(t, backend.endCalls())

	sess := withChat(t, m, deps)
	_, cmd = m.Update(keepaliveMsg{})
	runAll(cmd)
	assert.Equal(t, []string{"conv-1"}, backend.endCalls())

	// Ended sessions are left alone.
	_, err := sess.Advance(&api.AnswerReply{End: true, Message: "bye"})
	require.NoError(t, err)
	_, cmd = m.Update(keepaliveMsg{})
	runAll(cmd)
	assert.Len(t, backend.endCalls(), 1)
}

func TestApp_ExitSignalsUnfinishedSession(t *testing.T) {
	backend := &fakeBackend{}
	m, deps := testModel(backend)
	withChat(t, m, deps)

	m.keeper.Exit(m.Target())
	assert.Equal(t, []string{"conv-1"}, backend.endCalls())
}

func TestApp_ViewShowsHeaderAndTooSmall(t *testing.T) {
	m, _ := testModel(&fakeBackend{})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, updated.(AppModel).frame(), "Terminal too small")

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	frame := updated.(AppModel).frame()
	assert.Contains(t, frame, "ReflectionApp")
	assert.Contains(t, frame, "English")
}

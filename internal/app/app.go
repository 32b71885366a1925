package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/reflectapp/internal/keepalive"
	"github.com/abhisek/reflectapp/internal/router"
	"github.com/abhisek/reflectapp/internal/screen"
	"github.com/abhisek/reflectapp/internal/screens"
	"github.com/abhisek/reflectapp/internal/screens/language"
	"github.com/abhisek/reflectapp/internal/ui/layout"
)

// keepaliveMsg fires every keepalive interval.
type keepaliveMsg struct{}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	keeper *keepalive.Keeper
	ctx    context.Context
	width  int
	height int
}

// newAppModel creates a new AppModel with the language screen.
func newAppModel(deps *screens.Deps, keeper *keepalive.Keeper) AppModel {
	return AppModel{
		router: router.New(language.New(deps)),
		keeper: keeper,
		ctx:    deps.Context(),
	}
}

func (m AppModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if active := m.router.Active(); active != nil {
		cmds = append(cmds, active.Init())
	}
	cmds = append(cmds, m.scheduleKeepalive())
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case keepaliveMsg:
		cmds := []tea.Cmd{m.scheduleKeepalive()}
		if id, ok := m.keeper.Due(m.Target()); ok {
			keeper, ctx := m.keeper, m.ctx
			cmds = append(cmds, func() tea.Msg {
				_ = keeper.Ping(ctx, id)
				return nil
			})
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.capturesInput() {
				return m, tea.Quit
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.frame())
	return v
}

// frame renders header, active screen and footer.
func (m AppModel) frame() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Target returns the conversation to keep alive, or nil before one exists.
func (m AppModel) Target() keepalive.Target {
	holder, ok := m.router.Active().(screens.SessionHolder)
	if !ok {
		return nil
	}
	sess := holder.Session()
	if sess == nil {
		return nil
	}
	return sess
}

func (m AppModel) capturesInput() bool {
	ic, ok := m.router.Active().(screen.InputCapturer)
	return ok && ic.CapturesInput()
}

func (m AppModel) scheduleKeepalive() tea.Cmd {
	return tea.Tick(m.keeper.Interval(), func(time.Time) tea.Msg { return keepaliveMsg{} })
}

// Run starts the Bubble Tea program. When it ends, an unfinished
// conversation is signalled once more before returning.
func Run(ctx context.Context, deps *screens.Deps, keeper *keepalive.Keeper) error {
	deps.Ctx = ctx
	p := tea.NewProgram(newAppModel(deps, keeper), tea.WithContext(ctx))
	final, err := p.Run()

	if m, ok := final.(AppModel); ok {
		keeper.Exit(m.Target())
	}

	if err != nil && !isInterrupt(err) {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

func isInterrupt(err error) bool {
	return errors.Is(err, tea.ErrInterrupted) || errors.Is(err, tea.ErrProgramKilled)
}

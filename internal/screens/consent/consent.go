// Package consent shows the localized consent text. Agreeing leads to the
// start form; there is no way forward without agreeing.
package consent

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/reflectapp/internal/i18n"
	"github.com/abhisek/reflectapp/internal/router"
	"github.com/abhisek/reflectapp/internal/screen"
	"github.com/abhisek/reflectapp/internal/screens"
	"github.com/abhisek/reflectapp/internal/screens/start"
	"github.com/abhisek/reflectapp/internal/ui/components"
	"github.com/abhisek/reflectapp/internal/ui/layout"
	"github.com/abhisek/reflectapp/internal/ui/theme"
)

// ConsentScreen displays the consent form.
type ConsentScreen struct {
	deps    *screens.Deps
	strings i18n.Strings
	agree   components.Button
}

var _ screen.Screen = (*ConsentScreen)(nil)
var _ screen.KeyHintProvider = (*ConsentScreen)(nil)

// New creates the consent screen for the chosen locale.
func New(deps *screens.Deps, strs i18n.Strings) *ConsentScreen {
	s := &ConsentScreen{deps: deps, strings: strs}
	s.agree = components.NewButton(strs.AgreeButton, true, func() tea.Cmd {
		next := start.New(deps, strs)
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	})
	return s
}

func (s *ConsentScreen) Init() tea.Cmd {
	return nil
}

func (s *ConsentScreen) Title() string {
	return s.strings.ConsentTitle
}

func (s *ConsentScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: s.strings.AgreeButton},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *ConsentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.agree, cmd = s.agree.Update(msg)
	return s, cmd
}

func (s *ConsentScreen) View(width, height int) string {
	cardWidth := width - 8
	if cardWidth > 90 {
		cardWidth = 90
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render(s.strings.ConsentTitle),
		"",
		theme.Body.Width(cardWidth-6).Render(s.strings.ConsentBody),
		"",
		s.agree.View(),
	)
	return layout.Center(theme.Card.Width(cardWidth).Render(body), width, height)
}

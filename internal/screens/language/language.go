// Package language is the first screen: the user picks the conversation
// language, which is sent to the server before anything else.
package language

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/reflectapp/internal/i18n"
	"github.com/abhisek/reflectapp/internal/router"
	"github.com/abhisek/reflectapp/internal/screen"
	"github.com/abhisek/reflectapp/internal/screens"
	"github.com/abhisek/reflectapp/internal/screens/consent"
	"github.com/abhisek/reflectapp/internal/ui/components"
	"github.com/abhisek/reflectapp/internal/ui/layout"
	"github.com/abhisek/reflectapp/internal/ui/theme"
)

// languageSetMsg carries the server's answer to /set_language.
type languageSetMsg struct {
	Locale i18n.Locale
	OK     bool
	Err    error
}

// LanguageScreen lists the available locales.
type LanguageScreen struct {
	deps    *screens.Deps
	menu    components.Menu
	pending bool
}

var _ screen.Screen = (*LanguageScreen)(nil)
var _ screen.KeyHintProvider = (*LanguageScreen)(nil)

// New creates the language screen with deps.Language preselected.
func New(deps *screens.Deps) *LanguageScreen {
	s := &LanguageScreen{deps: deps}

	var items []components.MenuItem
	for _, l := range deps.Catalog.Locales() {
		strs := deps.Catalog.Get(l)
		items = append(items, components.MenuItem{
			Label:  strs.Name + "  (" + string(l) + ")",
			Value:  string(l),
			Action: s.choose(l),
		})
	}
	s.menu = components.NewMenu(items)
	s.menu.Select(string(deps.Language))
	return s
}

func (s *LanguageScreen) Init() tea.Cmd {
	if s.deps.AutoLanguage {
		if _, ok := s.deps.Catalog.Lookup(string(s.deps.Language)); ok {
			return s.choose(s.deps.Language)()
		}
	}
	return nil
}

func (s *LanguageScreen) Title() string {
	return "Language"
}

func (s *LanguageScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LanguageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case languageSetMsg:
		s.pending = false
		if msg.Err != nil {
			s.deps.Log.Error().Err(msg.Err).Str("language", string(msg.Locale)).Msg("set language failed")
			return s, nil
		}
		if !msg.OK {
			s.deps.Log.Warn().Str("language", string(msg.Locale)).Msg("server rejected language")
			return s, nil
		}
		s.deps.Log.Info().Str("language", string(msg.Locale)).Msg("language set")
		next := consent.New(s.deps, s.deps.Catalog.Get(msg.Locale))
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.pending {
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *LanguageScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render(layout.AppName))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	if s.pending {
		b.WriteString("\n" + theme.Hint.Render("…"))
	}
	return layout.Center(b.String(), width, height)
}

// choose returns the menu action that applies locale l.
func (s *LanguageScreen) choose(l i18n.Locale) func() tea.Cmd {
	return func() tea.Cmd {
		s.pending = true
		backend := s.deps.Backend
		ctx := s.deps.Context()
		return func() tea.Msg {
			ok, err := backend.SetLanguage(ctx, string(l))
			return languageSetMsg{Locale: l, OK: ok, Err: err}
		}
	}
}

package consent

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/reflectapp/internal/i18n"
	"github.com/abhisek/reflectapp/internal/router"
	"github.com/abhisek/reflectapp/internal/screens"
	"github.com/abhisek/reflectapp/internal/screens/start"
)

func TestConsent_ShowsLocalizedText(t *testing.T) {
	strs := i18n.Default().Get(i18n.Spanish)
	s := New(&screens.Deps{Catalog: i18n.Default(), Log: zerolog.Nop()}, strs)

	if s.Title() != strs.ConsentTitle {
		t.Errorf("expected title %q, got %q", strs.ConsentTitle, s.Title())
	}
}

func TestConsent_AgreeMovesToStart(t *testing.T) {
	strs := i18n.Default().Get(i18n.English)
	s := New(&screens.Deps{Catalog: i18n.Default(), Log: zerolog.Nop()}, strs)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command on enter")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*start.StartScreen); !ok {
		t.Errorf("expected start screen, got %T", msg.Screen)
	}
}

func TestConsent_OtherKeysIgnored(t *testing.T) {
	s := New(&screens.Deps{Catalog: i18n.Default(), Log: zerolog.Nop()}, i18n.Default().Get(i18n.English))
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"}); cmd != nil {
		t.Error("expected no command for unrelated key")
	}
}

package components

import (
	"strings"
	"testing"

	"charm.land/bubbles/v2/spinner"

	"github.com/abhisek/reflectapp/internal/i18n"
	"github.com/abhisek/reflectapp/internal/session"
)

func TestRenderEntry_Labels(t *testing.T) {
	tests := []struct {
		name  string
		entry session.Entry
		label string
	}{
		{"main question", session.Entry{Role: session.RoleQuestion, IsMainQuestion: true, Text: "What happened?"}, "Question 1"},
		{"intro", session.Entry{Role: session.RoleIntro, Text: "Welcome"}, "Guidelines"},
		{"response", session.Entry{Role: session.RoleResponse, Text: "my answer"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderEntry(tt.entry, tt.label, 80)
			if !strings.Contains(out, tt.entry.Text) {
				t.Errorf("rendered entry missing text %q:\n%s", tt.entry.Text, out)
			}
			if tt.label != "" && !strings.Contains(out, tt.label) {
				t.Errorf("rendered entry missing label %q:\n%s", tt.label, out)
			}
		})
	}
}

func TestChatLog_RenderAndTyping(t *testing.T) {
	en := i18n.Default().Get(i18n.English)
	var log session.Log
	log.Append(session.Entry{Role: session.RoleIntro, Text: "Intro text"})
	log.Append(session.Entry{Role: session.RoleQuestion, IsMainQuestion: true, Text: "First question"})

	c := NewChatLog()
	c.SetSize(80, 20)
	c.Render(&log, en)

	content := c.Content()
	for _, want := range []string{"Guidelines", "Intro text", "Question 1", "First question"} {
		if !strings.Contains(content, want) {
			t.Errorf("content missing %q", want)
		}
	}

	cmd := c.ShowTyping(en.Typing)
	if cmd == nil {
		t.Error("expected spinner tick command when typing starts")
	}
	if !c.Typing() || !strings.Contains(c.Content(), en.Typing) {
		t.Error("typing row not shown")
	}
	if again := c.ShowTyping(en.Typing); again != nil {
		t.Error("second ShowTyping must not start another spinner")
	}

	c.HideTyping()
	if c.Typing() || strings.Contains(c.Content(), en.Typing) {
		t.Error("typing row still shown after HideTyping")
	}

	// Spinner ticks stop once typing is hidden.
	if _, cmd := c.Update(spinner.TickMsg{}); cmd != nil {
		t.Error("spinner kept ticking after HideTyping")
	}
}

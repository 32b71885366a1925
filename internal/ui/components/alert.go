package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/reflectapp/internal/ui/theme"
)

// Alert is a blocking message box. While visible it swallows every key;
// Enter or Esc dismisses it.
type Alert struct {
	message string
	visible bool
}

// Show displays msg.
func (a *Alert) Show(msg string) {
	a.message = msg
	a.visible = true
}

// Visible reports whether the alert is shown.
func (a Alert) Visible() bool {
	return a.visible
}

// Message returns the shown text.
func (a Alert) Message() string {
	return a.message
}

// Update dismisses the alert on Enter or Esc. It reports whether the
// message was consumed.
func (a Alert) Update(msg tea.Msg) (Alert, bool) {
	if !a.visible {
		return a, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, false
	}
	switch kmsg.String() {
	case "enter", "esc":
		a.visible = false
	}
	return a, true
}

// View renders the alert centered in a width x height area.
func (a Alert) View(width, height int) string {
	boxWidth := width * 2 / 3
	if boxWidth < 30 {
		boxWidth = width
	}
	box := theme.Alert.Width(boxWidth).Render(
		a.message + "\n\n" + theme.Hint.Render("Enter ⏎"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/reflectapp/internal/ui/theme"
)

// Button is a styled button component. A disabled button renders dimmed and
// ignores presses; a hidden one renders nothing.
type Button struct {
	Label   string
	Key     string // key that presses the button, "enter" if empty
	Active  bool
	Hidden  bool
	OnPress func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Active:  active,
		OnPress: onPress,
	}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Active || b.Hidden {
		return b, nil
	}

	key := b.Key
	if key == "" {
		key = "enter"
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if kmsg.String() == key && b.OnPress != nil {
			return b, b.OnPress()
		}
	}

	return b, nil
}

// View renders the button.
func (b Button) View() string {
	if b.Hidden {
		return ""
	}
	label := "▸ " + b.Label
	if b.Key != "" && b.Key != "enter" {
		label += " [" + b.Key + "]"
	}
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/reflectapp/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with app styling and an enabled flag.
type TextInput struct {
	Model    textinput.Model
	Label    string
	disabled bool
}

// NewTextInput creates a new styled, focused text input. charLimit <= 0
// means unlimited.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()

	return TextInput{Model: ti, Label: label}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. A disabled input ignores key presses.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.disabled {
		if _, ok := msg.(tea.KeyMsg); ok {
			return t, nil
		}
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.disabled {
		view = lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Model.Value())
	}
	if t.Label == "" {
		return view
	}
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Label)
	return label + "\n" + view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// TrimmedValue returns the value without surrounding whitespace.
func (t TextInput) TrimmedValue() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetWidth sets the visible width of the input.
func (t *TextInput) SetWidth(w int) {
	t.Model.SetWidth(w)
}

// Focus gives the input keyboard focus.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// SetEnabled enables or disables editing.
func (t *TextInput) SetEnabled(enabled bool) {
	t.disabled = !enabled
}

// Enabled reports whether the input accepts key presses.
func (t TextInput) Enabled() bool {
	return !t.disabled
}

// Reset clears the value.
func (t *TextInput) Reset() {
	t.Model.Reset()
}

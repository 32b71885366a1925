package components

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/reflectapp/internal/i18n"
	"github.com/abhisek/reflectapp/internal/session"
	"github.com/abhisek/reflectapp/internal/ui/theme"
)

// ChatLog renders the message log into a scrolling viewport that follows the
// newest entry, plus an optional "typing" row.
type ChatLog struct {
	viewport viewport.Model
	spinner  spinner.Model

	typing     bool
	typingText string

	rendered string
	width    int
}

// NewChatLog creates an empty chat log.
func NewChatLog() ChatLog {
	return ChatLog{
		viewport: viewport.New(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
	}
}

// SetSize resizes the viewport. Content is re-wrapped on the next Render.
func (c *ChatLog) SetSize(width, height int) {
	c.width = width
	c.viewport.SetWidth(width)
	c.viewport.SetHeight(height)
}

// Render rebuilds the content from log and scrolls to the newest entry.
func (c *ChatLog) Render(log *session.Log, s i18n.Strings) {
	width := c.width
	if width <= 0 {
		width = 80
	}
	blocks := make([]string, 0, log.Len())
	for i := 0; i < log.Len(); i++ {
		blocks = append(blocks, RenderEntry(log.At(i), session.LabelFor(log, i, s), width))
	}
	c.rendered = strings.Join(blocks, "\n\n")
	c.refresh()
}

// ShowTyping displays the typing row and starts its spinner.
func (c *ChatLog) ShowTyping(text string) tea.Cmd {
	c.typingText = text
	if c.typing {
		c.refresh()
		return nil
	}
	c.typing = true
	c.refresh()
	return c.spinner.Tick
}

// HideTyping removes the typing row.
func (c *ChatLog) HideTyping() {
	c.typing = false
	c.refresh()
}

// Typing reports whether the typing row is shown.
func (c ChatLog) Typing() bool {
	return c.typing
}

// Update animates the spinner and handles scroll keys.
func (c ChatLog) Update(msg tea.Msg) (ChatLog, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !c.typing {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		c.refresh()
		return c, cmd
	case tea.KeyPressMsg:
		switch msg.String() {
		case "pgup":
			c.viewport.PageUp()
		case "pgdown":
			c.viewport.PageDown()
		case "up":
			c.viewport.ScrollUp(1)
		case "down":
			c.viewport.ScrollDown(1)
		}
	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		c.viewport, cmd = c.viewport.Update(msg)
		return c, cmd
	}
	return c, nil
}

// View renders the visible part of the log.
func (c ChatLog) View() string {
	return c.viewport.View()
}

// Content returns the full rendered log, typing row included.
func (c ChatLog) Content() string {
	return c.viewport.GetContent()
}

func (c *ChatLog) refresh() {
	content := c.rendered
	if c.typing {
		row := c.spinner.View() + " " + theme.Typing.Render(c.typingText)
		if content != "" {
			content += "\n\n"
		}
		content += row
	}
	c.viewport.SetContent(content)
	c.viewport.GotoBottom()
}

// RenderEntry renders one log entry with its label.
func RenderEntry(e session.Entry, label string, width int) string {
	bubbleWidth := width * 4 / 5
	if bubbleWidth < 20 {
		bubbleWidth = width
	}

	var body string
	switch {
	case e.Role == session.RoleIntro:
		body = theme.Intro.Width(bubbleWidth).Render(e.Text)
	case e.Role == session.RoleError:
		body = theme.ErrorMessage.Width(bubbleWidth).Render(e.Text)
	case e.Role == session.RoleResponse:
		body = theme.Response.Width(bubbleWidth).Render(e.Text)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, body)
	case e.IsFinalMessage:
		body = theme.FinalMessage.Width(bubbleWidth).Render(e.Text)
	default:
		body = theme.Question.Width(bubbleWidth).Render(e.Text)
	}

	if label == "" {
		return body
	}
	labelStyle := theme.MessageLabel
	if e.Role == session.RoleIntro {
		labelStyle = theme.IntroLabel
	}
	return labelStyle.Render(label) + "\n" + body
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"changuito/internal/chat"
	"changuito/internal/llm"
)

// chatScreen is the assistant conversation view.
type chatScreen struct {
	session *chat.Session
	input   textinput.Model
	view    viewport.Model
	waiting bool
	errText string
}

func newChatScreen(session *chat.Session) *chatScreen {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 500
	input.Focus()

	vp := viewport.New(0, 0)
	return &chatScreen{session: session, input: input, view: vp}
}

func (c *chatScreen) blocksGlobalKeys() bool {
	// The input is always focused, so every printable key belongs to it.
	return true
}

func (c *chatScreen) setSize(width, height int) {
	c.view.Width = width
	if height > 4 {
		c.view.Height = height - 4
	}
	c.refresh()
}

func (c *chatScreen) Update(msg tea.Msg) (*chatScreen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(c.input.Value())
			if text == "" || c.waiting {
				return c, nil
			}
			c.input.Reset()
			c.waiting = true
			c.errText = ""
			cmd := chatSendCmd(c.session, text)
			c.refresh()
			return c, cmd
		case "ctrl+l":
			c.session.Reset()
			c.refresh()
			return c, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			c.view, cmd = c.view.Update(msg)
			return c, cmd
		}
	case chatReplyMsg:
		c.waiting = false
		if msg.err != nil {
			c.errText = msg.err.Error()
		}
		c.refresh()
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// refresh rebuilds the transcript inside the viewport and pins it to
// the bottom.
func (c *chatScreen) refresh() {
	var b strings.Builder
	for _, m := range c.session.History() {
		label := StyleSelected.Render("You")
		if m.Role == llm.RoleAssistant {
			label = StyleHeader.Render("Assistant")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}
	if c.waiting {
		b.WriteString(StyleSubtle.Render("Thinking..."))
		b.WriteString("\n")
	}
	c.view.SetContent(b.String())
	c.view.GotoBottom()
}

func (c *chatScreen) View() string {
	var b strings.Builder
	b.WriteString(c.view.View())
	b.WriteString("\n")
	b.WriteString(c.input.View())
	b.WriteString("\n")
	if c.errText != "" {
		b.WriteString(StyleError.Render(c.errText))
		b.WriteString("\n")
	}
	b.WriteString(StyleSubtle.Render("enter send • ctrl+l clear • shift+←/→ switch screen"))
	return b.String()
}

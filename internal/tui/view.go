package tui

import (
	"fmt"
	"strings"

	"github.com/lioran/chatterm/internal/conversation"
	"github.com/lioran/chatterm/internal/tui/styles"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	state := m.store.Snapshot()
	if state.Status == conversation.StatusStreaming {
		b.WriteString(fmt.Sprintf("%s Waiting for reply...\n", m.spinner.View()))
	} else {
		b.WriteString(styles.TextAreaStyle.Render(m.textarea.View()))
		b.WriteString("\n")
	}

	if state.Status == conversation.StatusError && state.Error != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("Error: %s", state.Error)))
	}

	return m.alert.Render(b.String())
}

func (m *Model) renderTitle() string {
	title := fmt.Sprintf(" 🤖 %s │ 💬 %s ", m.opts.Model, m.opts.SessionID)
	return styles.TitleStyle.Width(m.width).Render(title)
}

// renderMessages projects the full log into visual order, oldest first.
func (m *Model) renderMessages() string {
	var b strings.Builder

	state := m.store.Snapshot()
	for i, message := range state.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}

		switch message.Role {
		case conversation.RoleUser:
			b.WriteString(styles.UserMessageStyle.Render(message.Content))

		case conversation.RoleAssistant:
			if message.Content == "" {
				// In-flight placeholder; the typing indicator below covers it.
				b.WriteString(styles.TypingStyle.Render("..."))
				continue
			}
			rendered := m.renderer.Render(message.ID, message.Content)
			b.WriteString(styles.AssistantMessageStyle.Render(rendered))

		case conversation.RoleSystem:
			b.WriteString(styles.SystemMessageStyle.Render(
				fmt.Sprintf("System: %s", styles.Truncate(message.Content, styles.TruncateLength))))

		case conversation.RoleTool:
			b.WriteString(styles.ToolMessageStyle.Render(message.Content))
		}
	}

	// Transient typing indicator, never part of the log.
	if state.Status == conversation.StatusStreaming {
		if len(state.Messages) > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(styles.TypingStyle.Render(fmt.Sprintf("%s assistant is typing", m.spinner.View())))
	}

	return b.String()
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"
	"golang.design/x/clipboard"

	"github.com/lioran/chatterm/internal/conversation"
)

// submitDoneMsg signals that a submission round-trip finished, successfully
// or not; the outcome lives in the store.
type submitDoneMsg struct{}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Always update the alert model with every message.
	outAlert, alertCmd := m.alert.Update(msg)
	m.alert = outAlert.(bubbleup.AlertModel)
	if alertCmd != nil {
		cmds = append(cmds, alertCmd)
	}

	defer func() {
		switch msg.(type) {
		case spinner.TickMsg, cursor.BlinkMsg, tea.MouseMsg:
		default:
			log.Debug("update completed", "msg_type", fmt.Sprintf("%T", msg))
		}
	}()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()

	case submitDoneMsg:
		m.refreshViewport(true)
		m.recalculateLayout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		// The composer appends messages from its own goroutine, so the
		// transcript is re-projected on every tick while streaming.
		if m.streaming() {
			m.refreshViewport(m.viewport.AtBottom())
		}
	}

	if !m.streaming() {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.adjustTextareaHeight()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey handles key messages that should not reach the textarea or
// viewport. The second return value reports whether the key was consumed.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.Alt && !m.streaming() {
		switch msg.String() {
		case "alt+p":
			if entry, ok := m.history.Previous(m.textarea.Value()); ok {
				m.textarea.SetValue(entry)
				m.historyNavigating = true
				m.adjustTextareaHeight()
			}
			return nil, true
		case "alt+n":
			if entry, ok := m.history.Next(); ok {
				m.textarea.SetValue(entry)
				m.historyNavigating = true
				m.adjustTextareaHeight()
			}
			return nil, true
		case "alt+w":
			return m.copyLastReply(), true
		}
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return tea.Quit, true

	case tea.KeyCtrlJ:
		if !m.streaming() && strings.TrimSpace(m.textarea.Value()) != "" {
			return m.sendMessage(), true
		}
		return nil, true

	case tea.KeyCtrlN:
		if !m.streaming() {
			m.store.ClearMessages()
			m.store.SetStatus(conversation.StatusIdle, nil)
			m.refreshViewport(true)
			return m.alert.NewAlertCmd(bubbleup.InfoKey, "New chat"), true
		}
		return nil, true

	case tea.KeyEnter:
		if m.historyNavigating {
			m.history.Reset()
			m.historyNavigating = false
		}
	}

	if m.historyNavigating {
		switch msg.Type {
		case tea.KeyRunes, tea.KeyBackspace, tea.KeyDelete:
			m.history.Reset()
			m.historyNavigating = false
		}
	}
	return nil, false
}

// sendMessage kicks off one submission. The composer owns the status gate;
// the UI check above is only to avoid clearing the textarea for nothing.
func (m *Model) sendMessage() tea.Cmd {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return nil
	}

	m.history.Add(input)
	m.historyNavigating = false
	m.textarea.Reset()
	m.adjustTextareaHeight()

	submit := func() tea.Msg {
		// Gate rejections and network failures both end up in the store;
		// neither needs separate handling here.
		_ = m.composer.Submit(m.ctx, input)
		return submitDoneMsg{}
	}
	return tea.Batch(submit, m.spinner.Tick)
}

// copyLastReply copies the newest assistant message to the clipboard.
func (m *Model) copyLastReply() tea.Cmd {
	if !m.clipboardOK {
		return m.alert.NewAlertCmd(bubbleup.WarnKey, "Clipboard unavailable")
	}
	messages := m.store.Snapshot().Messages
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == conversation.RoleAssistant && messages[i].Content != "" {
			clipboard.Write(clipboard.FmtText, []byte(messages[i].Content))
			return m.alert.NewAlertCmd(bubbleup.InfoKey, "Copied to clipboard!")
		}
	}
	return nil
}

func (m *Model) refreshViewport(gotoBottom bool) {
	m.viewport.SetContent(m.renderMessages())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

// Package tui implements the interactive chat session: a textarea composer,
// a viewport transcript and a typing indicator, projected from the
// conversation store.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"
	"golang.design/x/clipboard"

	"github.com/lioran/chatterm/internal/composer"
	"github.com/lioran/chatterm/internal/conversation"
	"github.com/lioran/chatterm/internal/debug"
	"github.com/lioran/chatterm/internal/history"
	"github.com/lioran/chatterm/internal/markdown"
	"github.com/lioran/chatterm/internal/tui/styles"
)

var log = debug.GetLogger()

// Options decorate the session title bar.
type Options struct {
	Model     string
	SessionID string
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	// Core dependencies
	ctx      context.Context
	store    *conversation.Store
	composer *composer.Composer
	opts     Options

	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *markdown.Renderer

	// UI state
	width    int
	height   int
	ready    bool
	quitting bool

	// Alert notifications.
	alert       bubbleup.AlertModel
	clipboardOK bool

	// Input history
	history           *history.History
	historyNavigating bool
}

// New creates a chat session model.
func New(ctx context.Context, store *conversation.Store, c *composer.Composer, opts Options) (*Model, error) {
	ta := textarea.New()
	ta.Placeholder = "Type your message... (Ctrl+J to send, Alt+P/N for history, Ctrl+N for new chat, Ctrl+C to quit)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(styles.DefaultTextareaWidth)
	ta.SetHeight(styles.MinTextareaHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	renderer, err := markdown.New(styles.DefaultTextareaWidth)
	if err != nil {
		return nil, err
	}

	alert := bubbleup.NewAlertModel(25, true, 1)
	clipboardOK := clipboard.Init() == nil

	return &Model{
		ctx:         ctx,
		store:       store,
		composer:    c,
		opts:        opts,
		textarea:    ta,
		spinner:     sp,
		renderer:    renderer,
		alert:       *alert,
		clipboardOK: clipboardOK,
		history:     history.New(),
	}, nil
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.alert.Init(),
	)
}

// Run runs the session until the user quits.
func Run(m *Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}

func (m *Model) streaming() bool {
	status, _ := m.store.Status()
	return status == conversation.StatusStreaming
}

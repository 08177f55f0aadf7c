// Package tui implements a terminal chat client over the dialogue engine.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/penny/internal/dialogue"
	"github.com/Veraticus/penny/internal/tui/themes"
)

// Handler processes one chat message.
type Handler func(ctx context.Context, text string) dialogue.Reply

// quitCommand closes the chat like Esc.
const quitCommand = "/quit"

// chromeHeight is the number of rows taken by the header, input and status line.
const chromeHeight = 5

// Model holds the chat TUI state.
type Model struct {
	handler    Handler
	theme      themes.Theme
	config     Config
	keymap     KeyMap
	input      textinput.Model
	viewport   viewport.Model
	transcript []entry
	width      int
	height     int
	busy       bool
	quitting   bool
}

// newModel creates a new model with the given configuration.
func newModel(handler Handler, cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "нетфликс 599 каждое 5 число"
	input.Prompt = "› "
	input.CharLimit = 500
	input.Focus()

	m := Model{
		handler:  handler,
		theme:    cfg.Theme,
		config:   cfg,
		keymap:   DefaultKeyMap(),
		input:    input,
		viewport: viewport.New(cfg.Width, 1),
		width:    cfg.Width,
		height:   cfg.Height,
	}
	m.handleResize()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case replyMsg:
		m.busy = false
		m.appendEntry(speakerBot, msg.reply.Text)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.ToggleHelp):
			m.config.ShowHelp = !m.config.ShowHelp
			m.handleResize()
			return m, nil
		case key.Matches(msg, m.keymap.Send):
			return m.submit()
		case key.Matches(msg, m.keymap.ScrollUp), key.Matches(msg, m.keymap.ScrollDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the current input line to the engine.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.busy {
		return m, nil
	}
	if strings.EqualFold(text, quitCommand) {
		m.quitting = true
		return m, tea.Quit
	}

	m.input.Reset()
	m.busy = true
	m.appendEntry(speakerUser, text)
	return m, m.sendMessage(text)
}

func (m *Model) appendEntry(from speaker, text string) {
	m.transcript = append(m.transcript, entry{from: from, text: text})
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// handleResize fits the transcript viewport to the terminal.
func (m *Model) handleResize() {
	height := m.height - chromeHeight
	if !m.config.ShowHelp {
		height++
	}
	if height < 1 {
		height = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = height
	m.input.Width = m.width - len(m.input.Prompt) - 1
	m.viewport.SetContent(m.renderTranscript())
}

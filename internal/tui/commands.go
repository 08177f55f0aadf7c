package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// handleTimeout bounds one engine turn.
const handleTimeout = 30 * time.Second

// sendMessage runs one dialogue turn off the UI goroutine.
func (m Model) sendMessage(text string) tea.Cmd {
	handler := m.handler
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()

		return replyMsg{reply: handler(ctx, text)}
	}
}

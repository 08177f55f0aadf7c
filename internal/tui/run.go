package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the chat TUI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, handler Handler, opts ...Option) error {
	if handler == nil {
		return errors.New("handler is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !cfg.TestMode {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(newModel(handler, cfg), programOpts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

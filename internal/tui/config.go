package tui

import (
	"github.com/Veraticus/penny/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Title    string
	Width    int
	Height   int
	ShowHelp bool
	TestMode bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Title:    "penny",
		Width:    80,
		Height:   24,
		ShowHelp: true,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithTitle sets the header shown above the transcript.
func WithTitle(title string) Option {
	return func(c *Config) {
		c.Title = title
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithTestMode disables the alternate screen.
func WithTestMode(enabled bool) Option {
	return func(c *Config) {
		c.TestMode = enabled
	}
}

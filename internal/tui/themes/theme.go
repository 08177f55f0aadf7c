// Package themes defines color schemes for the chat TUI.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title      lipgloss.Style
	User       lipgloss.Style
	Bot        lipgloss.Style
	Status     lipgloss.Style
	StatusBusy lipgloss.Style
	RoundedBox lipgloss.Style
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Foreground lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
}

// Default is the default theme.
var Default = newTheme(
	lipgloss.Color("#F2C14E"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#f59e0b"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(
	lipgloss.Color("#f9e2af"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#fab387"),
)

// ByName returns a theme by its config name, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

func newTheme(primary, muted, border, fg, success, warning lipgloss.Color) Theme {
	return Theme{
		Primary:    primary,
		Muted:      muted,
		Border:     border,
		Foreground: fg,
		Success:    success,
		Warning:    warning,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		User: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Bot: lipgloss.NewStyle().
			Bold(true).
			Foreground(success),
		Status: lipgloss.NewStyle().
			Foreground(muted),
		StatusBusy: lipgloss.NewStyle().
			Foreground(warning).
			Italic(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
	}
}

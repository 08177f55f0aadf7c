package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.theme.Title.Render("🪙 " + m.config.Title),
		m.viewport.View(),
		m.theme.RoundedBox.Width(max(m.width-2, 1)).Render(m.input.View()),
	}
	if m.config.ShowHelp {
		sections = append(sections, m.renderStatus())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTranscript renders all chat entries, wrapping bot replies under
// their prefix.
func (m Model) renderTranscript() string {
	var b strings.Builder
	for i, e := range m.transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		switch e.from {
		case speakerUser:
			b.WriteString(m.theme.User.Render("you:"))
		case speakerBot:
			b.WriteString(m.theme.Bot.Render("penny:"))
		}
		lines := strings.Split(e.text, "\n")
		b.WriteString(" " + lines[0])
		for _, line := range lines[1:] {
			b.WriteString("\n  " + line)
		}
	}
	return b.String()
}

// renderStatus renders the key help line.
func (m Model) renderStatus() string {
	if m.busy {
		return m.theme.StatusBusy.Render("thinking…")
	}
	parts := make([]string, 0, 4)
	for _, binding := range m.keymap.ShortHelp() {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.theme.Status.Render(strings.Join(parts, " • "))
}

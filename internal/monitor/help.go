package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBinding represents a single keyboard shortcut entry.
type HelpBinding struct {
	Key  string
	Desc string
}

var helpBindings = []HelpBinding{
	{Key: "q / Ctrl+C", Desc: "Quit"},
	{Key: "p", Desc: "Pause or resume the stream"},
	{Key: "r", Desc: "Reconnect after the stream gave up"},
	{Key: "d", Desc: "Dismiss notifications"},
	{Key: "f", Desc: "Follow the log tail"},
	{Key: "up / down", Desc: "Scroll logs"},
	{Key: "?", Desc: "Toggle this help"},
}

var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

func renderHelp() string {
	lines := []string{TitleStyle.Render("Keyboard Shortcuts"), ""}
	for _, b := range helpBindings {
		lines = append(lines, helpKeyStyle.Render(b.Key)+helpDescStyle.Render(b.Desc))
	}
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}

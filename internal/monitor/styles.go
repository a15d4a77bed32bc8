package monitor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/livetap/internal/stream"
	"github.com/rileyhilliard/livetap/internal/ui"
)

// Dashboard palette
const (
	ColorBorder    = lipgloss.Color("#2A2A4A")
	ColorHealthy   = lipgloss.Color("#39FF14")
	ColorWarning   = lipgloss.Color("#FFAA00")
	ColorCritical  = lipgloss.Color("#FF0055")
	ColorText      = lipgloss.Color("#FFFFFF")
	ColorTextDim   = lipgloss.Color("#B4B4D0")
	ColorTextMuted = lipgloss.Color("#6B6B8D")
	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorGraph     = lipgloss.Color("#00FFFF")
	ColorGraphAlt  = lipgloss.Color("#BF40FF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Width(9)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	NotificationStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorCritical).
				Foreground(ColorText).
				Padding(0, 1)
)

// stateGlyph maps a subscription status to its header indicator.
func stateGlyph(st stream.Status) (string, lipgloss.Color) {
	switch {
	case st.Exhausted():
		return ui.SymbolFail, ColorCritical
	case st.State == stream.StateOpen:
		return ui.SymbolComplete, ColorHealthy
	case st.State == stream.StateConnecting, st.State == stream.StateClosed:
		return ui.SymbolProgress, ColorWarning
	case st.State == stream.StateDisabled:
		return ui.SymbolPaused, ColorTextDim
	default:
		return ui.SymbolPending, ColorTextMuted
	}
}

// StateText is a short human label for a subscription status.
func StateText(st stream.Status) string {
	switch {
	case st.Exhausted():
		return "gave up reconnecting"
	case st.State == stream.StateOpen:
		return "live"
	case st.State == stream.StateConnecting && st.Attempts > 0:
		return "reconnecting"
	case st.State == stream.StateConnecting:
		return "connecting"
	case st.State == stream.StateClosed:
		return "disconnected"
	case st.State == stream.StateDisabled:
		return "paused"
	default:
		return "idle"
	}
}

// levelColor colors a value against its limit: red at or over, amber from
// 80% of the limit.
func levelColor(value, limit float64) lipgloss.Color {
	switch {
	case limit <= 0:
		return ColorText
	case value >= limit:
		return ColorCritical
	case value >= limit*0.8:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

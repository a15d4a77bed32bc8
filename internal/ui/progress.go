package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	progressFilled = '█'
	progressEmpty  = '░'
)

// RenderProgressBar draws a utilisation gauge like "[████████░░░░]  67%".
// percent is clamped to 0-100 and width is the bar's inner width.
func RenderProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(percent, 100))

	filled := int(percent / 100.0 * float64(width))
	bar := "[" + strings.Repeat(string(progressFilled), filled) +
		strings.Repeat(string(progressEmpty), width-filled) + "]"

	style := lipgloss.NewStyle().Foreground(ThresholdColor(percent))
	return style.Render(bar) + fmt.Sprintf(" %3.0f%%", percent)
}

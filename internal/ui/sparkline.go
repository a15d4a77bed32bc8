package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderSparkline draws the most recent width points of a percentage
// series. Levels are scaled to the data's own min/max and the color follows
// the last value via ThresholdColor.
func RenderSparkline(data []float64, width int) string {
	line := sparkline(data, width, nil)
	if line == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(ThresholdColor(data[len(data)-1])).Render(line)
}

// RenderSparklineScaled draws a series with a fixed ceiling, for values that
// are not percentages (bytes per second, megabytes). Values at or above
// ceiling use the tallest block.
func RenderSparklineScaled(data []float64, width int, ceiling float64, color lipgloss.Color) string {
	line := sparkline(data, width, &ceiling)
	if line == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(color).Render(line)
}

func sparkline(data []float64, width int, ceiling *float64) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if ceiling != nil {
		minVal, maxVal = 0, *ceiling
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)

	numLevels := len(sparklineBlockRunes)
	valueRange := maxVal - minVal

	for _, v := range data {
		var level int
		if valueRange <= 0 {
			level = numLevels / 2
		} else {
			level = int((v - minVal) / valueRange * float64(numLevels-1))
			level = max(0, min(level, numLevels-1))
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}
	return sb.String()
}

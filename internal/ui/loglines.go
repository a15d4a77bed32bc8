package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LogLevel is the severity guessed from a log line's text.
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelWarn
	LogLevelError
)

var (
	logErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	logWarnStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
)

var (
	errorPrefixes = []string{"error:", "error ", "fatal:", "fatal ", "panic:", "exception:", "traceback"}
	warnPrefixes  = []string{"warn:", "warn ", "warning:", "warning "}
)

// ClassifyLogLine looks for a leading severity word, or an upper-case
// ERROR/WARN token anywhere in the line.
func ClassifyLogLine(line string) LogLevel {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	for _, p := range errorPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return LogLevelError
		}
	}
	if strings.Contains(line, "ERROR") || strings.Contains(line, "CRITICAL") {
		return LogLevelError
	}
	for _, p := range warnPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return LogLevelWarn
		}
	}
	if strings.Contains(line, "WARN") {
		return LogLevelWarn
	}
	return LogLevelNone
}

// HighlightLogLine colors error lines red and warnings yellow.
func HighlightLogLine(line string) string {
	switch ClassifyLogLine(line) {
	case LogLevelError:
		return logErrorStyle.Render(line)
	case LogLevelWarn:
		return logWarnStyle.Render(line)
	default:
		return line
	}
}

// HighlightLogLines highlights each line and joins them with newlines.
func HighlightLogLines(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = HighlightLogLine(l)
	}
	return strings.Join(out, "\n")
}

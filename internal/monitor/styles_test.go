package monitor

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/livetap/internal/stream"
	"github.com/rileyhilliard/livetap/internal/ui"
)

func TestStateText(t *testing.T) {
	exhausted := fmt.Errorf("wrapped: %w", stream.ErrRetriesExhausted)

	tests := []struct {
		name   string
		status stream.Status
		text   string
		glyph  string
	}{
		{"idle", stream.Status{State: stream.StateIdle}, "idle", ui.SymbolPending},
		{"connecting", stream.Status{State: stream.StateConnecting}, "connecting", ui.SymbolProgress},
		{"reconnecting", stream.Status{State: stream.StateConnecting, Attempts: 2}, "reconnecting", ui.SymbolProgress},
		{"open", stream.Status{State: stream.StateOpen}, "live", ui.SymbolComplete},
		{"closed", stream.Status{State: stream.StateClosed, Err: io.ErrUnexpectedEOF}, "disconnected", ui.SymbolProgress},
		{"exhausted", stream.Status{State: stream.StateClosed, Err: exhausted}, "gave up reconnecting", ui.SymbolFail},
		{"paused", stream.Status{State: stream.StateDisabled}, "paused", ui.SymbolPaused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, StateText(tt.status))
			glyph, _ := stateGlyph(tt.status)
			assert.Equal(t, tt.glyph, glyph)
		})
	}
}

func TestLevelColor(t *testing.T) {
	tests := []struct {
		value, limit float64
		want         lipgloss.Color
	}{
		{50, 0, ColorText},
		{50, 100, ColorHealthy},
		{80, 100, ColorWarning},
		{100, 100, ColorCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelColor(tt.value, tt.limit))
	}
}

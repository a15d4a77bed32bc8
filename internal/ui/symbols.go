package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // healthy, or a completed action
	SymbolFail     = "✗" // failed or exhausted
	SymbolPending  = "○" // idle
	SymbolProgress = "◐" // connecting or reconnecting
	SymbolComplete = "●" // connected
	SymbolPaused   = "⏸" // subscription disabled
	SymbolAlert    = "⚠" // threshold breach
)

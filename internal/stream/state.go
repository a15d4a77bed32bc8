package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrRetriesExhausted is reported once the reconnect budget is spent.
	// It persists until the key or the enabled flag changes.
	ErrRetriesExhausted = errors.New("max reconnection attempts reached")

	// ErrUnknownMode is returned by ParseMode.
	ErrUnknownMode = errors.New("unknown stream mode")
)

// State is the lifecycle state of a subscription.
type State uint8

const (
	// StateIdle means there is nothing to connect to (no key yet).
	StateIdle State = iota

	// StateConnecting means a dial is in flight.
	StateConnecting

	// StateOpen means the transport is up and frames are flowing.
	StateOpen

	// StateClosing is entered while a connection is being torn down.
	StateClosing

	// StateClosed means the transport went away. A reconnect may be pending.
	StateClosed

	// StateDisabled means the caller switched the subscription off.
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateOpen:
		return "OPEN"
	case StateClosing:
		return "CLOSING"
	case StateClosed:
		return "CLOSED"
	case StateDisabled:
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}

// Mode selects how frames are decoded. It is fixed per subscription.
type Mode uint8

const (
	// ModeJSON replaces the snapshot with each JSON object frame.
	ModeJSON Mode = iota

	// ModeLines appends each frame's non-blank lines to a bounded tail.
	ModeLines

	// ModeAlerts replaces the snapshot with the frame's alerts array.
	ModeAlerts
)

func (m Mode) String() string {
	switch m {
	case ModeJSON:
		return "json"
	case ModeLines:
		return "lines"
	case ModeAlerts:
		return "alerts"
	default:
		return "unknown"
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "json":
		return ModeJSON, nil
	case "lines":
		return ModeLines, nil
	case "alerts":
		return ModeAlerts, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

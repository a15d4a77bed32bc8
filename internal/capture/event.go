package capture

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies an event.
type Kind uint8

const (
	KindState Kind = iota
	KindFrame
	KindDrop
	KindError
	KindReconnect
)

func (k Kind) String() string {
	switch k {
	case KindState:
		return "STATE"
	case KindFrame:
		return "FRAME"
	case KindDrop:
		return "DROP"
	case KindError:
		return "ERROR"
	case KindReconnect:
		return "RECONNECT"
	default:
		return "UNKNOWN"
	}
}

// ParseKind is the inverse of Kind.String, case-insensitive.
func ParseKind(s string) (Kind, error) {
	for k := KindState; k <= KindReconnect; k++ {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q (want state, frame, drop, error or reconnect)", s)
}

// Event is one trace record. CBOR uses integer keys.
type Event struct {
	Timestamp    time.Time `cbor:"1,keyasint"`
	ConnectionID string    `cbor:"2,keyasint,omitempty"`
	Key          string    `cbor:"3,keyasint"`
	Epoch        uint64    `cbor:"4,keyasint"`
	Kind         Kind      `cbor:"5,keyasint"`

	State     *StateChange `cbor:"6,keyasint,omitempty"`
	Frame     *Frame       `cbor:"7,keyasint,omitempty"`
	Error     *ErrorData   `cbor:"8,keyasint,omitempty"`
	Reconnect *Reconnect   `cbor:"9,keyasint,omitempty"`
}

// StateChange records a subscription state transition.
type StateChange struct {
	From string `cbor:"1,keyasint"`
	To   string `cbor:"2,keyasint"`
}

// Frame describes a received (or dropped) frame.
type Frame struct {
	Mode  string `cbor:"1,keyasint"`
	Size  int    `cbor:"2,keyasint"`
	Lines int    `cbor:"3,keyasint,omitempty"`
	Data  []byte `cbor:"4,keyasint,omitempty"`
}

// ErrorData carries a transport or decode error message.
type ErrorData struct {
	Message string `cbor:"1,keyasint"`
}

// Reconnect records a scheduled reconnect or an exhausted budget.
type Reconnect struct {
	Attempt   int   `cbor:"1,keyasint"`
	DelayMs   int64 `cbor:"2,keyasint"`
	Exhausted bool  `cbor:"3,keyasint,omitempty"`
}

// String renders an event on one line for terminal output.
func (e Event) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-9s epoch=%d", e.Timestamp.Format("15:04:05.000"), e.Kind, e.Epoch)
	if e.ConnectionID != "" {
		fmt.Fprintf(&b, " conn=%s", shortID(e.ConnectionID))
	}

	switch {
	case e.State != nil:
		fmt.Fprintf(&b, " %s -> %s", e.State.From, e.State.To)
	case e.Frame != nil:
		fmt.Fprintf(&b, " mode=%s bytes=%d", e.Frame.Mode, e.Frame.Size)
		if e.Frame.Lines > 0 {
			fmt.Fprintf(&b, " lines=%d", e.Frame.Lines)
		}
	case e.Reconnect != nil:
		if e.Reconnect.Exhausted {
			fmt.Fprintf(&b, " exhausted after %d attempts", e.Reconnect.Attempt)
		} else {
			fmt.Fprintf(&b, " attempt=%d in %dms", e.Reconnect.Attempt, e.Reconnect.DelayMs)
		}
	}
	if e.Error != nil {
		fmt.Fprintf(&b, " err=%q", e.Error.Message)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

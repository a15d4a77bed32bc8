package stream

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rileyhilliard/livetap/internal/telemetry"
)

// ResultKind tells a consumer whether to replace or append.
type ResultKind uint8

const (
	KindSnapshot ResultKind = iota
	KindAppend
)

// Snapshot is the latest structured payload of a json or alerts stream.
// Snapshots are replaced wholesale, never merged.
type Snapshot struct {
	Raw    json.RawMessage
	Record map[string]any
	Alerts []telemetry.Alert
}

// Decode unmarshals the raw frame into v.
func (s *Snapshot) Decode(v any) error {
	return json.Unmarshal(s.Raw, v)
}

// Result is one decoded frame.
type Result struct {
	Kind     ResultKind
	Snapshot *Snapshot
	Lines    []string
}

// Decode turns a raw frame into a Result. ok is false when the frame must
// be dropped (malformed JSON, not an object, or a lines frame with no
// content).
func Decode(mode Mode, raw []byte) (Result, bool) {
	switch mode {
	case ModeLines:
		lines := splitLines(raw)
		if len(lines) == 0 {
			return Result{}, false
		}
		return Result{Kind: KindAppend, Lines: lines}, true
	case ModeAlerts:
		return decodeAlerts(raw)
	default:
		return decodeJSON(raw)
	}
}

func decodeJSON(raw []byte) (Result, bool) {
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil || record == nil {
		return Result{}, false
	}
	return Result{
		Kind:     KindSnapshot,
		Snapshot: &Snapshot{Raw: cloneBytes(raw), Record: record},
	}, true
}

// decodeAlerts accepts {"alerts": [...]}. An object whose alerts field is
// missing or not an array yields an empty list.
func decodeAlerts(raw []byte) (Result, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Result{}, false
	}

	alerts := []telemetry.Alert{}
	if v, ok := fields["alerts"]; ok && bytes.HasPrefix(bytes.TrimSpace(v), []byte("[")) {
		if err := json.Unmarshal(v, &alerts); err != nil {
			return Result{}, false
		}
	}
	return Result{
		Kind:     KindSnapshot,
		Snapshot: &Snapshot{Raw: cloneBytes(raw), Alerts: alerts},
	}, true
}

func splitLines(raw []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

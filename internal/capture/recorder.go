package capture

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/rileyhilliard/livetap/internal/errors"
	"github.com/rileyhilliard/livetap/internal/logger"
)

// Recorder receives trace events. Implementations must be safe for
// concurrent use and must not block.
type Recorder interface {
	Record(event Event)
}

// Noop discards every event.
type Noop struct{}

func (Noop) Record(Event) {}

// FileOptions tune a FileRecorder.
type FileOptions struct {
	// Payloads keeps raw frame bytes in the trace. Off by default since
	// live feeds push a frame every interval.
	Payloads bool
}

// FileRecorder appends CBOR events to a file.
type FileRecorder struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	opts    FileOptions
	closed  bool
}

// NewFileRecorder opens (or creates) path for appending.
func NewFileRecorder(path string, opts FileOptions) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCapture,
			"Couldn't open capture file "+path,
			"Check the directory exists and is writable")
	}
	return &FileRecorder{
		file:    f,
		encoder: NewEncoder(f),
		opts:    opts,
	}, nil
}

// Record writes event. Encoding failures are ignored so tracing never
// disturbs the stream being traced.
func (r *FileRecorder) Record(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if !r.opts.Payloads && event.Frame != nil && event.Frame.Data != nil {
		frame := *event.Frame
		frame.Data = nil
		event.Frame = &frame
	}
	_ = r.encoder.Encode(event)
}

// Close closes the file. Safe to call more than once.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// Multi fans events out to several recorders.
type Multi struct {
	recorders []Recorder
}

// NewMulti returns a recorder that forwards to every non-nil recorder given.
func NewMulti(recorders ...Recorder) *Multi {
	m := &Multi{}
	for _, r := range recorders {
		if r != nil {
			m.recorders = append(m.recorders, r)
		}
	}
	return m
}

func (m *Multi) Record(event Event) {
	for _, r := range m.recorders {
		r.Record(event)
	}
}

// LoggerAdapter writes events as debug lines through a logger.Logger.
// Errors and exhausted reconnect budgets go out at warn.
type LoggerAdapter struct {
	log logger.Logger
}

// NewLoggerAdapter wraps l.
func NewLoggerAdapter(l logger.Logger) *LoggerAdapter {
	return &LoggerAdapter{log: l}
}

func (a *LoggerAdapter) Record(event Event) {
	if event.Kind == KindError || (event.Reconnect != nil && event.Reconnect.Exhausted) {
		a.log.Warn("%s", event)
		return
	}
	a.log.Debug("%s", event)
}

// Memory keeps events in memory. Tests use it to assert on traces.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Record(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of everything recorded.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

var (
	_ Recorder = Noop{}
	_ Recorder = (*FileRecorder)(nil)
	_ Recorder = (*Multi)(nil)
	_ Recorder = (*LoggerAdapter)(nil)
	_ Recorder = (*Memory)(nil)
)

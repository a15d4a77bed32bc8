package capture

import (
	stderrors "errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/rileyhilliard/livetap/internal/errors"
)

// Filter narrows the events a Reader returns. Zero fields match everything.
type Filter struct {
	Key          string
	ConnectionID string
	Kind         *Kind
	Since        time.Time
	Until        time.Time
}

func (f Filter) matches(e Event) bool {
	if f.Key != "" && e.Key != f.Key {
		return false
	}
	if f.ConnectionID != "" && e.ConnectionID != f.ConnectionID {
		return false
	}
	if f.Kind != nil && e.Kind != *f.Kind {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !e.Timestamp.Before(f.Until) {
		return false
	}
	return true
}

// Reader iterates events from a trace file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens path and returns events matching filter.
func NewReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCapture,
			"Couldn't open capture file "+path,
			"Record one with: livetap watch system --capture "+path)
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next matching event, or io.EOF at the end of the file.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if stderrors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, errors.WrapWithCode(err, errors.ErrCapture,
				"Capture file is corrupt", "The trace may have been truncated mid-write")
		}
		if r.filter.matches(event) {
			return event, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

package capture

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/livetap/internal/errors"
	"github.com/rileyhilliard/livetap/internal/logger"
)

func sampleEvents(connID string) []Event {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []Event{
		{Timestamp: base, Key: "ws://h/ws/live", Epoch: 1, Kind: KindState, State: &StateChange{From: "IDLE", To: "CONNECTING"}},
		{Timestamp: base.Add(time.Second), ConnectionID: connID, Key: "ws://h/ws/live", Epoch: 1, Kind: KindFrame,
			Frame: &Frame{Mode: "json", Size: 20, Data: []byte(`{"cpu_percent":42}`)}},
		{Timestamp: base.Add(2 * time.Second), ConnectionID: connID, Key: "ws://h/ws/live", Epoch: 1, Kind: KindError,
			Error: &ErrorData{Message: "unexpected EOF"}},
		{Timestamp: base.Add(3 * time.Second), Key: "ws://h/ws/logs", Epoch: 2, Kind: KindReconnect,
			Reconnect: &Reconnect{Attempt: 1, DelayMs: 5000}},
	}
}

func TestEncodeDecode(t *testing.T) {
	in := sampleEvents(uuid.NewString())[1]

	data, err := EncodeEvent(in)
	require.NoError(t, err)

	out, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.True(t, in.Timestamp.Equal(out.Timestamp))
	assert.Equal(t, in.Frame, out.Frame)
	assert.Equal(t, in.Kind, out.Kind)
}

func TestFileRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.cbor")
	connID := uuid.NewString()

	rec, err := NewFileRecorder(path, FileOptions{})
	require.NoError(t, err)
	for _, e := range sampleEvents(connID) {
		rec.Record(e)
	}
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close(), "second close is a no-op")
	rec.Record(Event{Kind: KindState})

	r, err := NewReader(path, Filter{})
	require.NoError(t, err)
	defer r.Close()

	var got []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, e)
	}

	require.Len(t, got, 4)
	require.NotNil(t, got[1].Frame)
	assert.Nil(t, got[1].Frame.Data, "payloads are stripped unless requested")
	assert.Equal(t, 20, got[1].Frame.Size)
}

func TestFileRecorder_Payloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.cbor")

	rec, err := NewFileRecorder(path, FileOptions{Payloads: true})
	require.NoError(t, err)
	rec.Record(sampleEvents("c")[1])
	require.NoError(t, rec.Close())

	r, err := NewReader(path, Filter{})
	require.NoError(t, err)
	defer r.Close()

	e, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"cpu_percent":42}`), e.Frame.Data)
}

func TestReader_Filter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.cbor")
	connID := uuid.NewString()

	rec, err := NewFileRecorder(path, FileOptions{})
	require.NoError(t, err)
	for _, e := range sampleEvents(connID) {
		rec.Record(e)
	}
	require.NoError(t, rec.Close())

	kindErr := KindError
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "all", filter: Filter{}, want: 4},
		{name: "by key", filter: Filter{Key: "ws://h/ws/logs"}, want: 1},
		{name: "by connection", filter: Filter{ConnectionID: connID}, want: 2},
		{name: "by kind", filter: Filter{Kind: &kindErr}, want: 1},
		{name: "time window", filter: Filter{Since: base.Add(time.Second), Until: base.Add(3 * time.Second)}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(path, tt.filter)
			require.NoError(t, err)
			defer r.Close()

			n := 0
			for {
				_, err := r.Next()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				n++
			}
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestNewReader_MissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "nope.cbor"), Filter{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCapture))
}

func TestMultiAndMemory(t *testing.T) {
	a, b := &Memory{}, &Memory{}
	m := NewMulti(a, nil, b)

	m.Record(Event{Kind: KindDrop})

	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
}

func TestLoggerAdapter(t *testing.T) {
	buf := logger.NewBufferLogger()
	a := NewLoggerAdapter(buf)

	events := sampleEvents("0123456789abcdef")
	a.Record(events[0])
	a.Record(events[2])
	a.Record(Event{Kind: KindReconnect, Reconnect: &Reconnect{Attempt: 10, Exhausted: true}})

	msgs := buf.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "debug", msgs[0].Level)
	assert.Contains(t, msgs[0].Message, "IDLE -> CONNECTING")
	assert.Equal(t, "warn", msgs[1].Level)
	assert.Contains(t, msgs[1].Message, "conn=01234567")
	assert.Contains(t, msgs[1].Message, `err="unexpected EOF"`)
	assert.Equal(t, "warn", msgs[2].Level)
	assert.Contains(t, msgs[2].Message, "exhausted after 10 attempts")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "FRAME", KindFrame.String())
	assert.Equal(t, "UNKNOWN", Kind(99).String())
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindState, KindFrame, KindDrop, KindError, KindReconnect} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKind("drop")
	require.NoError(t, err)
	assert.Equal(t, KindDrop, got)

	_, err = ParseKind("bogus")
	assert.Error(t, err)
}

package stream

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rileyhilliard/livetap/internal/capture"
	"github.com/rileyhilliard/livetap/internal/series"
)

// Status is a point-in-time view of a subscription.
type Status struct {
	Key       string
	Mode      Mode
	Enabled   bool
	State     State
	Connected bool

	// Err is the last transport error, or ErrRetriesExhausted (wrapped)
	// once the reconnect budget is spent. Cleared on open.
	Err error

	// Latest is the current snapshot for json and alerts modes.
	Latest *Snapshot

	// Lines is the log tail for lines mode, oldest first. Shared with the
	// subscription and must not be modified.
	Lines []string

	// Received counts lines appended since the last key change, including
	// ones already evicted from Lines.
	Received int

	// Epoch of the most recent connection attempt.
	Epoch uint64

	// Attempts is the number of reconnects since the last successful open.
	Attempts int
}

// Exhausted reports whether auto-reconnect has given up.
func (s Status) Exhausted() bool {
	return errors.Is(s.Err, ErrRetriesExhausted)
}

// Subscription keeps at most one live connection for its current key.
// All transitions serialize on mu; transport callbacks carry an epoch and
// are ignored unless it matches live.
type Subscription struct {
	opts options
	mode Mode

	mu        sync.Mutex
	key       string
	enabled   bool
	state     State
	connected bool
	err       error
	latest    *Snapshot
	lines     series.Buffer[string]
	received  int

	epoch uint64 // last minted
	live  uint64 // epoch of conn, 0 when there is none
	conn  *connection

	timer     Timer
	timerSeq  uint64
	pending   uint64 // timerSeq of the armed reconnect, 0 when none
	attempts  int
	exhausted bool

	released bool
	changes  chan struct{}
}

// Subscribe creates a subscription and applies key and enabled to it.
func Subscribe(key string, enabled bool, mode Mode, opts ...Option) *Subscription {
	o := buildOptions(opts)
	s := &Subscription{
		opts:    o,
		mode:    mode,
		state:   StateIdle,
		lines:   series.New[string](o.logLines),
		changes: make(chan struct{}, 1),
	}

	s.mu.Lock()
	s.applyLocked(key, enabled)
	s.mu.Unlock()
	return s
}

// Update re-subscribes with new parameters. Passing the current key with
// enabled=true while a connection is live or a reconnect is pending is a
// no-op.
func (s *Subscription) Update(key string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.applyLocked(key, enabled)
}

// SetEnabled is Update with the current key.
func (s *Subscription) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.applyLocked(s.key, enabled)
}

// Status returns the current view.
func (s *Subscription) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Key:       s.key,
		Mode:      s.mode,
		Enabled:   s.enabled,
		State:     s.state,
		Connected: s.connected,
		Err:       s.err,
		Latest:    s.latest,
		Lines:     s.lines.Items(),
		Received:  s.received,
		Epoch:     s.epoch,
		Attempts:  s.attempts,
	}
}

// Changes signals (coalesced) whenever Status may have changed. The
// channel is closed by Unsubscribe.
func (s *Subscription) Changes() <-chan struct{} {
	return s.changes
}

// Unsubscribe invalidates the current epoch, cancels any pending
// reconnect and closes the transport. No state changes after it returns.
func (s *Subscription) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.teardownLocked()
	s.setStateLocked(StateClosed)
	s.released = true
	close(s.changes)
}

func (s *Subscription) applyLocked(key string, enabled bool) {
	keyChanged := key != s.key
	wasEnabled := s.enabled
	s.key, s.enabled = key, enabled

	if keyChanged {
		s.teardownLocked()
		s.latest = nil
		s.lines = series.New[string](s.opts.logLines)
		s.received = 0
		s.resetRetryLocked()
	}

	if !enabled {
		s.teardownLocked()
		s.resetRetryLocked()
		s.setStateLocked(StateDisabled)
		s.notifyLocked()
		return
	}

	if key == "" {
		s.teardownLocked()
		s.setStateLocked(StateIdle)
		s.notifyLocked()
		return
	}

	if !keyChanged && wasEnabled {
		if s.conn != nil || s.pending != 0 || s.exhausted {
			return
		}
	}
	if !wasEnabled {
		s.resetRetryLocked()
	}
	s.connectLocked()
	s.notifyLocked()
}

func (s *Subscription) resetRetryLocked() {
	s.attempts = 0
	s.exhausted = false
	s.err = nil
}

// connectLocked mints an epoch and starts a connection for s.key.
func (s *Subscription) connectLocked() {
	s.epoch++
	s.live = s.epoch
	s.conn = newConnection(s.live, s.key, s.opts.dialer, s)
	s.connected = false
	s.setStateLocked(StateConnecting)
	s.opts.log.Debug("connecting to %s (epoch %d)", s.key, s.live)
	s.conn.start()
}

// teardownLocked drops the live epoch, the pending timer and the transport.
func (s *Subscription) teardownLocked() {
	s.cancelTimerLocked()
	if s.conn == nil {
		return
	}
	s.live = 0
	s.connected = false
	s.setStateLocked(StateClosing)
	s.conn.close()
	s.conn = nil
	s.setStateLocked(StateClosed)
}

func (s *Subscription) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = 0
}

func (s *Subscription) handleOpen(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released || epoch != s.live {
		return
	}
	s.connected = true
	s.err = nil
	s.attempts = 0
	s.setStateLocked(StateOpen)
	s.opts.log.Debug("connected to %s (epoch %d)", s.key, epoch)
	s.notifyLocked()
}

func (s *Subscription) handleMessage(epoch uint64, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released || epoch != s.live {
		return
	}

	res, ok := Decode(s.mode, data)
	if !ok {
		s.opts.log.Debug("dropped malformed %s frame (%d bytes) from %s", s.mode, len(data), s.key)
		s.record(capture.Event{Kind: capture.KindDrop, Frame: s.frame(data, 0)})
		return
	}

	switch res.Kind {
	case KindAppend:
		s.lines = s.lines.Append(res.Lines...)
		s.received += len(res.Lines)
		s.record(capture.Event{Kind: capture.KindFrame, Frame: s.frame(data, len(res.Lines))})
	default:
		s.latest = res.Snapshot
		s.record(capture.Event{Kind: capture.KindFrame, Frame: s.frame(data, 0)})
	}
	s.notifyLocked()
}

func (s *Subscription) handleClose(epoch uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released || epoch != s.live {
		return
	}

	s.live = 0
	s.connected = false
	if err != nil {
		s.err = err
		s.opts.log.Warn("stream %s: %v", s.key, err)
		s.record(capture.Event{Kind: capture.KindError, Error: &capture.ErrorData{Message: err.Error()}})
	}
	s.setStateLocked(StateClosed)
	s.conn = nil

	if s.enabled && s.key != "" {
		s.scheduleReconnectLocked()
	}
	s.notifyLocked()
}

func (s *Subscription) scheduleReconnectLocked() {
	policy := s.opts.policy
	if policy.exhausted(s.attempts) {
		s.exhausted = true
		if s.err != nil {
			s.err = fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, s.attempts, s.err)
		} else {
			s.err = fmt.Errorf("%w after %d attempts", ErrRetriesExhausted, s.attempts)
		}
		s.opts.log.Warn("stream %s: giving up after %d reconnect attempts", s.key, s.attempts)
		s.record(capture.Event{Kind: capture.KindReconnect, Reconnect: &capture.Reconnect{Attempt: s.attempts, Exhausted: true}})
		return
	}

	s.attempts++
	s.timerSeq++
	seq := s.timerSeq
	s.pending = seq
	s.record(capture.Event{Kind: capture.KindReconnect, Reconnect: &capture.Reconnect{
		Attempt: s.attempts,
		DelayMs: policy.Delay.Milliseconds(),
	}})
	s.opts.log.Debug("reconnecting to %s in %s (attempt %d)", s.key, policy.Delay, s.attempts)
	s.timer = s.opts.clock.AfterFunc(policy.Delay, func() { s.fireReconnect(seq) })
}

func (s *Subscription) fireReconnect(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released || seq != s.pending {
		return
	}
	s.timer = nil
	s.pending = 0
	if !s.enabled || s.key == "" || s.conn != nil {
		return
	}
	s.connectLocked()
	s.notifyLocked()
}

func (s *Subscription) setStateLocked(next State) {
	if s.state == next {
		return
	}
	prev := s.state
	s.state = next
	s.record(capture.Event{Kind: capture.KindState, State: &capture.StateChange{From: prev.String(), To: next.String()}})
}

func (s *Subscription) notifyLocked() {
	if s.released {
		return
	}
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

func (s *Subscription) record(e capture.Event) {
	e.Timestamp = s.opts.clock.Now()
	e.Key = s.key
	e.Epoch = s.epoch
	if s.conn != nil {
		e.ConnectionID = s.conn.id
	}
	s.opts.recorder.Record(e)
}

func (s *Subscription) frame(data []byte, lines int) *capture.Frame {
	return &capture.Frame{Mode: s.mode.String(), Size: len(data), Lines: lines, Data: data}
}

var _ events = (*Subscription)(nil)

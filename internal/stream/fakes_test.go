package stream

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errClosed = errors.New("use of closed connection")

type fakeConn struct {
	url    string
	frames chan []byte
	drops  chan error
	done   chan struct{}
	once   sync.Once
}

func newFakeConn(url string) *fakeConn {
	return &fakeConn{
		url:    url,
		frames: make(chan []byte, 16),
		drops:  make(chan error, 1),
		done:   make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case <-c.done:
		return nil, errClosed
	default:
	}
	select {
	case f := <-c.frames:
		return f, nil
	case err := <-c.drops:
		return nil, err
	case <-c.done:
		return nil, errClosed
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *fakeConn) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// send pushes a server frame.
func (c *fakeConn) send(frame string) {
	c.frames <- []byte(frame)
}

// drop simulates the server going away; nil error means a clean close.
func (c *fakeConn) drop(err error) {
	if err == nil {
		err = io.EOF
	}
	c.drops <- err
}

type dialResult struct {
	conn Conn
	err  error
}

type dialAttempt struct {
	url    string
	result chan dialResult
}

// accept completes the dial and returns the server side of the conn.
func (a *dialAttempt) accept() *fakeConn {
	c := newFakeConn(a.url)
	a.result <- dialResult{conn: c}
	return c
}

func (a *dialAttempt) fail(err error) {
	a.result <- dialResult{err: err}
}

// fakeDialer parks every dial until the test accepts or fails it.
type fakeDialer struct {
	// ignoreCtx keeps a dial parked even after the connection is torn
	// down, so tests can deliver a belated open.
	ignoreCtx bool

	mu       sync.Mutex
	attempts []*dialAttempt
	conns    []*fakeConn
	dials    chan *dialAttempt
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{dials: make(chan *dialAttempt, 64)}
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	a := &dialAttempt{url: url, result: make(chan dialResult, 1)}
	d.mu.Lock()
	d.attempts = append(d.attempts, a)
	d.mu.Unlock()
	d.dials <- a

	var r dialResult
	if d.ignoreCtx {
		r = <-a.result
	} else {
		select {
		case r = <-a.result:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fc, ok := r.conn.(*fakeConn); ok {
		d.mu.Lock()
		d.conns = append(d.conns, fc)
		d.mu.Unlock()
	}
	return r.conn, r.err
}

// next waits for the next dial attempt.
func (d *fakeDialer) next(t *testing.T) *dialAttempt {
	t.Helper()
	select {
	case a := <-d.dials:
		return a
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a dial")
		return nil
	}
}

// assertNoDial fails if a dial arrives within a short window.
func (d *fakeDialer) assertNoDial(t *testing.T) {
	t.Helper()
	select {
	case a := <-d.dials:
		t.Fatalf("unexpected dial to %s", a.url)
	case <-time.After(50 * time.Millisecond):
	}
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.attempts)
}

// liveConns counts transports handed out and not yet closed.
func (d *fakeDialer) liveConns() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.conns {
		if !c.closed() {
			n++
		}
	}
	return n
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs due timers on the caller's goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	for _, t := range c.timers {
		if !t.fired && !t.stopped && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

// Pending counts armed timers.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func waitState(t *testing.T, s *Subscription, want State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.Status().State == want
	}, 2*time.Second, 2*time.Millisecond, "never reached %s (at %s)", want, s.Status().State)
}

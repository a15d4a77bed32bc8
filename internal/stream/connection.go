package stream

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
)

// events receives callbacks from a connection. Every call carries the
// epoch the connection was created under.
type events interface {
	handleOpen(epoch uint64)
	handleMessage(epoch uint64, data []byte)
	handleClose(epoch uint64, err error)
}

// connection owns exactly one physical transport to one URL.
type connection struct {
	id     string
	epoch  uint64
	url    string
	dialer Dialer
	sink   events

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	conn   Conn
	closed bool
}

func newConnection(epoch uint64, url string, dialer Dialer, sink events) *connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &connection{
		id:     uuid.NewString(),
		epoch:  epoch,
		url:    url,
		dialer: dialer,
		sink:   sink,
		ctx:    ctx,
		cancel: cancel,
	}
}

// start dials and pumps frames on a new goroutine.
func (c *connection) start() {
	go c.run()
}

func (c *connection) run() {
	conn, err := c.dialer.Dial(c.ctx, c.url)

	c.mu.Lock()
	if c.closed {
		// Torn down while dialing: the transport was never ours to report.
		c.mu.Unlock()
		if err == nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		c.mu.Unlock()
		c.sink.handleClose(c.epoch, err)
		return
	}
	c.conn = conn
	c.mu.Unlock()

	c.sink.handleOpen(c.epoch)

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			if c.isClosed() {
				return
			}
			if errors.Is(err, io.EOF) {
				err = nil
			}
			c.sink.handleClose(c.epoch, err)
			return
		}
		c.sink.handleMessage(c.epoch, data)
	}
}

func (c *connection) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// close aborts a pending dial or closes the open transport. Idempotent.
func (c *connection) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	c.cancel()
	if conn != nil {
		_ = conn.Close()
	}
}

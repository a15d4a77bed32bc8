package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const closeGrace = 250 * time.Millisecond

// WebSocketOptions configure the production dialer.
type WebSocketOptions struct {
	// HandshakeTimeout bounds the opening handshake. Zero means 10s.
	HandshakeTimeout time.Duration

	// ReadTimeout drops the connection when no frame (or server ping)
	// arrives within the window. Zero disables the deadline.
	ReadTimeout time.Duration

	// Header is sent with the handshake request.
	Header http.Header
}

// WebSocketDialer dials stream URLs with gorilla/websocket.
type WebSocketDialer struct {
	dialer *websocket.Dialer
	opts   WebSocketOptions
}

// NewWebSocketDialer returns a Dialer for ws:// and wss:// URLs.
func NewWebSocketDialer(opts WebSocketOptions) *WebSocketDialer {
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	return &WebSocketDialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: opts.HandshakeTimeout,
		},
		opts: opts,
	}
}

func (d *WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	c, resp, err := d.dialer.DialContext(ctx, url, d.opts.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	wc := &wsConn{c: c, readTimeout: d.opts.ReadTimeout}
	if wc.readTimeout > 0 {
		c.SetPingHandler(func(appData string) error {
			_ = c.SetReadDeadline(time.Now().Add(wc.readTimeout))
			err := c.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
			if err == websocket.ErrCloseSent {
				return nil
			}
			return err
		})
	}
	return wc, nil
}

type wsConn struct {
	c           *websocket.Conn
	readTimeout time.Duration
}

// ReadMessage returns io.EOF when the server closes normally.
func (w *wsConn) ReadMessage() ([]byte, error) {
	if w.readTimeout > 0 {
		_ = w.c.SetReadDeadline(time.Now().Add(w.readTimeout))
	}
	_, data, err := w.c.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, io.EOF
		}
		return nil, err
	}
	return data, nil
}

// Close sends a close frame (best effort) and closes the socket.
func (w *wsConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = w.c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
	return w.c.Close()
}

var _ Dialer = (*WebSocketDialer)(nil)

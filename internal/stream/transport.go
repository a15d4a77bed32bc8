package stream

import "context"

// Dialer opens a transport to a stream URL.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// Conn is an open message transport. ReadMessage blocks until a frame
// arrives or the transport fails; it must return an error once Close has
// been called.
type Conn interface {
	ReadMessage() ([]byte, error)
	Close() error
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, url string) (Conn, error)

func (f DialerFunc) Dial(ctx context.Context, url string) (Conn, error) {
	return f(ctx, url)
}

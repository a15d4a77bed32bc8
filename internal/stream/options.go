package stream

import (
	"github.com/rileyhilliard/livetap/internal/capture"
	"github.com/rileyhilliard/livetap/internal/logger"
)

// DefaultLogLines is the log tail capacity of a lines subscription.
const DefaultLogLines = 100

type options struct {
	dialer   Dialer
	clock    Clock
	policy   ReconnectPolicy
	log      logger.Logger
	recorder capture.Recorder
	logLines int
}

// Option configures a Subscription.
type Option func(*options)

// WithDialer replaces the gorilla/websocket dialer.
func WithDialer(d Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// WithClock replaces the wall clock used for reconnect timers.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithReconnectPolicy overrides DefaultReconnectPolicy.
func WithReconnectPolicy(p ReconnectPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithLogger sets the logger for lifecycle messages.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRecorder traces lifecycle events to r.
func WithRecorder(r capture.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithLogLines sets the log tail capacity for ModeLines.
func WithLogLines(n int) Option {
	return func(o *options) { o.logLines = n }
}

func buildOptions(opts []Option) options {
	o := options{
		clock:    realClock{},
		policy:   DefaultReconnectPolicy(),
		log:      logger.Default(),
		recorder: capture.Noop{},
		logLines: DefaultLogLines,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dialer == nil {
		o.dialer = NewWebSocketDialer(WebSocketOptions{})
	}
	if o.logLines <= 0 {
		o.logLines = DefaultLogLines
	}
	if o.recorder == nil {
		o.recorder = capture.Noop{}
	}
	if o.log == nil {
		o.log = logger.Noop()
	}
	if o.clock == nil {
		o.clock = realClock{}
	}
	return o
}

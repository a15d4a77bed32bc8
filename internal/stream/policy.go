package stream

import "time"

const (
	// DefaultReconnectDelay is the fixed wait between a drop and the next attempt.
	DefaultReconnectDelay = 5 * time.Second

	// DefaultMaxAttempts caps reconnects between successful opens.
	DefaultMaxAttempts = 10
)

// ReconnectPolicy controls automatic reconnection after the transport drops.
type ReconnectPolicy struct {
	// Delay before each reconnect attempt.
	Delay time.Duration

	// MaxAttempts is the number of reconnects allowed without a successful
	// open in between. Zero means unbounded.
	MaxAttempts int
}

// DefaultReconnectPolicy returns 5s between attempts, 10 attempts max.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		Delay:       DefaultReconnectDelay,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// exhausted reports whether attempts already made use up the budget.
func (p ReconnectPolicy) exhausted(attempts int) bool {
	return p.MaxAttempts > 0 && attempts >= p.MaxAttempts
}

// Package alert does client-side threshold watching: a debounced breach
// detector plus a tray of short-lived notifications. It runs independently
// of the server's alert feed.
package alert

import (
	"sync"
	"time"
)

const (
	// DefaultCooldown is how long a breach must persist before it is
	// reported, and the minimum gap between repeat reports.
	DefaultCooldown = 10 * time.Second

	// DefaultDismissAfter is how long a notification stays in the tray.
	DefaultDismissAfter = 5 * time.Second
)

// BreachEvent reports a threshold held past the cooldown.
type BreachEvent struct {
	Key       string
	Label     string
	Threshold float64
	Value     float64
	At        time.Time
}

// Monitor tracks, per key, when the value first went over its threshold.
type Monitor struct {
	mu       sync.Mutex
	cooldown time.Duration
	since    map[string]time.Time
	labels   map[string]string
}

// NewMonitor returns a Monitor. A non-positive cooldown means DefaultCooldown.
func NewMonitor(cooldown time.Duration) *Monitor {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Monitor{
		cooldown: cooldown,
		since:    make(map[string]time.Time),
		labels:   make(map[string]string),
	}
}

// SetLabel sets the human name reported for key. Unlabeled keys report the key.
func (m *Monitor) SetLabel(key, label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels[key] = label
}

// Observe feeds one sample. At or over threshold, the first sample starts
// a breach window and returns nil; a later sample at least one cooldown
// after the window start returns an event and restarts the window at now.
// Any sample under threshold clears the window.
func (m *Monitor) Observe(key string, value, threshold float64, now time.Time) *BreachEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	if value < threshold {
		delete(m.since, key)
		return nil
	}

	start, ok := m.since[key]
	if !ok {
		m.since[key] = now
		return nil
	}
	if now.Sub(start) < m.cooldown {
		return nil
	}

	m.since[key] = now
	label := m.labels[key]
	if label == "" {
		label = key
	}
	return &BreachEvent{
		Key:       key,
		Label:     label,
		Threshold: threshold,
		Value:     value,
		At:        now,
	}
}

// BreachStart returns when key's current breach window began.
func (m *Monitor) BreachStart(key string) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.since[key]
	return t, ok
}

// Reset forgets every open breach window. Call it when the watched feed changes.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.since = make(map[string]time.Time)
}

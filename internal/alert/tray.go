package alert

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification is a breach shown to the user until it expires or is dismissed.
type Notification struct {
	ID      string
	Title   string
	Message string
	Event   BreachEvent
	Expires time.Time
}

// Tray holds live notifications.
type Tray struct {
	mu    sync.Mutex
	ttl   time.Duration
	items []Notification
}

// NewTray returns a tray whose notifications expire after ttl. A
// non-positive ttl means DefaultDismissAfter.
func NewTray(ttl time.Duration) *Tray {
	if ttl <= 0 {
		ttl = DefaultDismissAfter
	}
	return &Tray{ttl: ttl}
}

// Push adds a notification for ev.
func (t *Tray) Push(ev BreachEvent, now time.Time) Notification {
	n := Notification{
		ID:      uuid.NewString(),
		Title:   ev.Label + " threshold exceeded",
		Message: fmt.Sprintf("%.1f over limit %.1f for %s", ev.Value, ev.Threshold, ev.Key),
		Event:   ev,
		Expires: now.Add(t.ttl),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, n)
	return n
}

// Active returns notifications still live at now, oldest first, and
// forgets expired ones.
func (t *Tray) Active(now time.Time) []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.items[:0]
	for _, n := range t.items {
		if now.Before(n.Expires) {
			kept = append(kept, n)
		}
	}
	t.items = kept

	out := make([]Notification, len(kept))
	copy(out, kept)
	return out
}

// Dismiss removes a notification early. It reports whether id was present.
func (t *Tray) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, n := range t.items {
		if n.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

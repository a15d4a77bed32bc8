// Package series holds fixed-capacity rolling buffers for chart data.
//
// Buffers are values. Push and Append never touch the receiver's backing
// array; they return a new Buffer, so a consumer holding an older Buffer
// keeps seeing exactly what it saw before.
package series

// DefaultCapacity is the number of points kept per metric.
const DefaultCapacity = 60

// Buffer is an immutable FIFO of at most Cap() items. The zero value is an
// empty buffer with DefaultCapacity.
type Buffer[T any] struct {
	items    []T
	capacity int
}

// New returns an empty buffer holding at most capacity items. A
// non-positive capacity means DefaultCapacity.
func New[T any](capacity int) Buffer[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return Buffer[T]{capacity: capacity}
}

// Cap returns the buffer's capacity.
func (b Buffer[T]) Cap() int {
	if b.capacity <= 0 {
		return DefaultCapacity
	}
	return b.capacity
}

// Len returns the number of items held.
func (b Buffer[T]) Len() int {
	return len(b.items)
}

// Push returns a new buffer with v appended, dropping the oldest item
// once the buffer is full.
func (b Buffer[T]) Push(v T) Buffer[T] {
	return b.Append(v)
}

// Append is Push for a batch. When the batch alone exceeds capacity only
// its newest items survive.
func (b Buffer[T]) Append(vs ...T) Buffer[T] {
	capacity := b.Cap()
	total := len(b.items) + len(vs)
	drop := total - capacity
	if drop < 0 {
		drop = 0
	}

	out := make([]T, 0, total-drop)
	if drop < len(b.items) {
		out = append(out, b.items[drop:]...)
		out = append(out, vs...)
	} else {
		out = append(out, vs[drop-len(b.items):]...)
	}
	return Buffer[T]{items: out, capacity: capacity}
}

// Items returns the held items, oldest first. The slice is shared with the
// buffer and must not be modified.
func (b Buffer[T]) Items() []T {
	return b.items[:len(b.items):len(b.items)]
}

// Last returns the newest item.
func (b Buffer[T]) Last() (T, bool) {
	if len(b.items) == 0 {
		var zero T
		return zero, false
	}
	return b.items[len(b.items)-1], true
}

// Tail returns at most n of the newest items, oldest first.
func (b Buffer[T]) Tail(n int) []T {
	if n <= 0 {
		return nil
	}
	if n > len(b.items) {
		n = len(b.items)
	}
	return b.Items()[len(b.items)-n:]
}

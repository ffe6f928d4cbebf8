// Package history implements the fixed-capacity sample history used by the
// FIR and polyphase filters.
package history

import (
	"fmt"
	"iter"
	"slices"

	"github.com/tphakala/go-arb-resampler/internal/errs"
	"github.com/tphakala/go-arb-resampler/internal/simdops"
)

// History is a fixed-capacity circular buffer of the most recent samples.
// Pushing overwrites the oldest slot. Before any sample arrives every slot
// holds the zero value.
//
// A History is not safe for concurrent use; callers that share one must
// serialise Push against Views/All.
type History[T simdops.Number] struct {
	data []T
	// head is the next slot to overwrite, which is also the oldest sample.
	head int
}

// New creates a history holding capacity samples, all zero.
func New[T simdops.Number](capacity int) (*History[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: history capacity must be positive, got %d", errs.ErrInvalidConfig, capacity)
	}
	return &History[T]{data: make([]T, capacity)}, nil
}

// Push stores x as the newest sample and returns the evicted oldest one.
func (h *History[T]) Push(x T) T {
	old := h.data[h.head]
	h.data[h.head] = x
	h.head++
	if h.head == len(h.data) {
		h.head = 0
	}
	return old
}

// Views returns the contents as two contiguous segments so that
// older ++ newer is ordered oldest to newest. When the cursor is at zero,
// older is the whole buffer and newer is empty. The slices alias the
// buffer and are invalidated by the next Push.
func (h *History[T]) Views() (older, newer []T) {
	if h.head == 0 {
		return h.data, h.data[:0]
	}
	return h.data[h.head:], h.data[:h.head]
}

// All returns an iterator over the samples from oldest to newest.
// Each call starts from the oldest sample; iterating never mutates the buffer.
func (h *History[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		older, newer := h.Views()
		for _, v := range older {
			if !yield(v) {
				return
			}
		}
		for _, v := range newer {
			if !yield(v) {
				return
			}
		}
	}
}

// Len returns the capacity.
func (h *History[T]) Len() int {
	return len(h.data)
}

// Cursor returns the index of the slot the next Push will overwrite.
func (h *History[T]) Cursor() int {
	return h.head
}

// Snapshot returns a copy of the samples, oldest first.
func (h *History[T]) Snapshot() []T {
	out := make([]T, 0, len(h.data))
	older, newer := h.Views()
	out = append(out, older...)
	return append(out, newer...)
}

// Restore replaces the contents with samples (oldest first). samples must
// have exactly Len() elements. The cursor is reset to zero, which keeps
// the oldest-to-newest order of Snapshot.
func (h *History[T]) Restore(samples []T) error {
	if len(samples) != len(h.data) {
		return fmt.Errorf("%w: history restore needs %d samples, got %d",
			errs.ErrInvalidConfig, len(h.data), len(samples))
	}
	copy(h.data, samples)
	h.head = 0
	return nil
}

// Slots returns a copy of the buffer in storage order. Together with
// Cursor it reproduces the exact split returned by Views.
func (h *History[T]) Slots() []T {
	return slices.Clone(h.data)
}

// RestoreSlots replaces the buffer with slots in storage order and sets the
// cursor, undoing Slots and Cursor. cursor must be in [0, Len()).
func (h *History[T]) RestoreSlots(slots []T, cursor int) error {
	if len(slots) != len(h.data) {
		return fmt.Errorf("%w: history restore needs %d samples, got %d",
			errs.ErrInvalidConfig, len(h.data), len(slots))
	}
	if cursor < 0 || cursor >= len(h.data) {
		return fmt.Errorf("%w: history cursor %d out of range [0, %d)",
			errs.ErrInvalidConfig, cursor, len(h.data))
	}
	copy(h.data, slots)
	h.head = cursor
	return nil
}

// Reset zeroes every slot and rewinds the cursor.
func (h *History[T]) Reset() {
	clear(h.data)
	h.head = 0
}

// Clone returns an independent copy.
func (h *History[T]) Clone() *History[T] {
	data := make([]T, len(h.data))
	copy(data, h.data)
	return &History[T]{data: data, head: h.head}
}

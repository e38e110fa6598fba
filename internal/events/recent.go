package events

import (
	"context"
	"sync"

	"github.com/isdelr/social-be/internal/models"
)

// Recent keeps the last events in memory for the activity endpoint.
type Recent struct {
	mu     sync.RWMutex
	buf    []models.Event
	next   int
	filled bool
}

// NewRecent creates a buffer holding up to size events.
func NewRecent(size int) *Recent {
	if size <= 0 {
		size = 1
	}
	return &Recent{buf: make([]models.Event, size)}
}

// Publish implements Publisher.
func (r *Recent) Publish(_ context.Context, event models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = event
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.filled = true
	}
	return nil
}

// Latest returns up to limit events, newest first.
func (r *Recent) Latest(limit int) []models.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := r.next
	if r.filled {
		n = len(r.buf)
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]models.Event, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (r.next - 1 - i + len(r.buf)) % len(r.buf)
		out = append(out, r.buf[idx])
	}
	return out
}

// Cap is the number of events the buffer can hold.
func (r *Recent) Cap() int {
	return len(r.buf)
}

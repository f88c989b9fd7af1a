// Package idempotency gates re-processing of redelivered events. Each
// logical consumer (service × topic role) owns its own Guard; dedup keys are
// namespaced per role so the same order flowing through several listeners in
// one process never collides.
package idempotency

import "sync"

// DefaultCapacity bounds the best-effort dedup window.
const DefaultCapacity = 10_000

// Guard is a bounded record of processed event keys. On reaching capacity
// the whole record set is cleared before the new key is inserted: a short
// window of potential duplicate re-processing is traded for O(1) memory and
// no LRU bookkeeping. The record is not crash-durable.
type Guard struct {
	mu       sync.Mutex
	capacity int
	seen     map[string]struct{}
}

func NewGuard(capacity int) *Guard {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Guard{
		capacity: capacity,
		seen:     make(map[string]struct{}),
	}
}

func (g *Guard) Seen(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.seen[key]
	return ok
}

func (g *Guard) MarkSeen(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[key]; ok {
		return
	}

	if len(g.seen) >= g.capacity {
		g.seen = make(map[string]struct{})
	}

	g.seen[key] = struct{}{}
}

// Len reports the current population, never above capacity.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.seen)
}

package repository

import (
	"context"
	"sync"
)

// CounterStore keeps the running count per final status. Counts only ever
// increase; there is no decrement, windowing, or expiry.
type CounterStore interface {
	Increment(ctx context.Context, status string) error
	Snapshot(ctx context.Context) (map[string]int64, error)
}

type memoryCounterStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMemoryCounterStore() CounterStore {
	return &memoryCounterStore{counts: make(map[string]int64)}
}

func (s *memoryCounterStore) Increment(_ context.Context, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[status]++
	return nil
}

func (s *memoryCounterStore) Snapshot(_ context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]int64, len(s.counts))
	for status, count := range s.counts {
		snapshot[status] = count
	}

	return snapshot, nil
}

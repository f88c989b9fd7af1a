package idempotency

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuard_SeenAfterMark(t *testing.T) {
	guard := NewGuard(10)

	require.False(t, guard.Seen("order-1"))

	guard.MarkSeen("order-1")

	require.True(t, guard.Seen("order-1"))
	require.False(t, guard.Seen("order-2"))
}

func TestGuard_MarkSeenIdempotent(t *testing.T) {
	guard := NewGuard(10)

	guard.MarkSeen("order-1")
	guard.MarkSeen("order-1")
	guard.MarkSeen("order-1")

	require.Equal(t, 1, guard.Len())
}

func TestGuard_ResetsAtCapacity(t *testing.T) {
	capacity := 5
	guard := NewGuard(capacity)

	for i := 0; i < capacity; i++ {
		guard.MarkSeen(fmt.Sprintf("order-%d", i))
	}
	require.Equal(t, capacity, guard.Len())

	guard.MarkSeen("order-overflow")

	require.Equal(t, 1, guard.Len())
	require.True(t, guard.Seen("order-overflow"))
	for i := 0; i < capacity; i++ {
		require.False(t, guard.Seen(fmt.Sprintf("order-%d", i)))
	}
}

func TestGuard_RemarkingFullGuardDoesNotReset(t *testing.T) {
	capacity := 3
	guard := NewGuard(capacity)

	guard.MarkSeen("a")
	guard.MarkSeen("b")
	guard.MarkSeen("c")

	guard.MarkSeen("b")

	require.Equal(t, capacity, guard.Len())
	require.True(t, guard.Seen("a"))
	require.True(t, guard.Seen("c"))
}

func TestGuard_DefaultCapacityOnInvalidInput(t *testing.T) {
	guard := NewGuard(0)
	require.Equal(t, DefaultCapacity, guard.capacity)

	guard = NewGuard(-1)
	require.Equal(t, DefaultCapacity, guard.capacity)
}

func TestGuard_ConcurrentMark(t *testing.T) {
	guard := NewGuard(DefaultCapacity)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("order-%d", j)
				guard.MarkSeen(key)
				guard.Seen(key)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 100, guard.Len())
}

package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := newKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("o-1")
			counter++
			km.Unlock("o-1")
		}()
	}
	wg.Wait()

	require.Equal(t, 100, counter)
}

func TestKeyedMutex_ReleasedEntriesAreRemoved(t *testing.T) {
	km := newKeyedMutex()

	km.Lock("o-1")
	km.Lock("o-2")
	km.Unlock("o-2")
	km.Unlock("o-1")

	km.mu.Lock()
	defer km.mu.Unlock()
	require.Empty(t, km.locks)
}

func TestKeyedMutex_DistinctKeysDoNotBlock(t *testing.T) {
	km := newKeyedMutex()

	km.Lock("o-1")

	done := make(chan struct{})
	go func() {
		km.Lock("o-2")
		km.Unlock("o-2")
		close(done)
	}()

	<-done
	km.Unlock("o-1")
}

package service

import (
	"context"
	"sync"
	"testing"

	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/services/analytics/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKpiAggregator_CountsByFinalStatus(t *testing.T) {
	agg := NewKpiAggregator(repository.NewMemoryCounterStore(), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := agg.HandleStatusChanged(ctx, &domain.OrderStatusChanged{FinalStatus: domain.FinalStatusConfirmed})
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		err := agg.HandleStatusChanged(ctx, &domain.OrderStatusChanged{FinalStatus: domain.FinalStatusRejected})
		require.NoError(t, err)
	}

	counts, err := agg.StatusCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]int64{
		domain.FinalStatusConfirmed: 3,
		domain.FinalStatusRejected:  2,
	}, counts)
}

func TestKpiAggregator_EmptySnapshot(t *testing.T) {
	agg := NewKpiAggregator(repository.NewMemoryCounterStore(), zap.NewNop())

	counts, err := agg.StatusCounts(context.Background())
	require.NoError(t, err)
	require.Empty(t, counts)
}

func TestKpiAggregator_SnapshotIsACopy(t *testing.T) {
	agg := NewKpiAggregator(repository.NewMemoryCounterStore(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, agg.HandleStatusChanged(ctx, &domain.OrderStatusChanged{FinalStatus: domain.FinalStatusConfirmed}))

	counts, err := agg.StatusCounts(ctx)
	require.NoError(t, err)
	counts[domain.FinalStatusConfirmed] = 99

	counts, err = agg.StatusCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), counts[domain.FinalStatusConfirmed])
}

func TestKpiAggregator_ConcurrentIncrements(t *testing.T) {
	agg := NewKpiAggregator(repository.NewMemoryCounterStore(), zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = agg.HandleStatusChanged(ctx, &domain.OrderStatusChanged{FinalStatus: domain.FinalStatusConfirmed})
		}()
	}
	wg.Wait()

	counts, err := agg.StatusCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(100), counts[domain.FinalStatusConfirmed])
}

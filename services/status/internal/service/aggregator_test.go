package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAggregator_PaymentThenInventory(t *testing.T) {
	agg := NewOrderStatusAggregator(zap.NewNop())

	result := agg.HandlePaymentOutcome("o-1", domain.PaymentStatusAuthorized, "corr-1")
	require.False(t, result.Completed)

	result = agg.HandleInventoryOutcome("o-1", domain.InventoryStatusReserved, "corr-1")
	require.True(t, result.Completed)
	require.Equal(t, "o-1", result.Event.OrderID)
	require.Equal(t, domain.PaymentStatusAuthorized, result.Event.PaymentStatus)
	require.Equal(t, domain.InventoryStatusReserved, result.Event.InventoryStatus)
	require.Equal(t, domain.FinalStatusConfirmed, result.Event.FinalStatus)
	require.False(t, result.Event.UpdatedAt.IsZero())
}

func TestAggregator_InventoryThenPayment(t *testing.T) {
	agg := NewOrderStatusAggregator(zap.NewNop())

	result := agg.HandleInventoryOutcome("o-1", domain.InventoryStatusReserved, "corr-1")
	require.False(t, result.Completed)

	result = agg.HandlePaymentOutcome("o-1", domain.PaymentStatusAuthorized, "corr-1")
	require.True(t, result.Completed)
	require.Equal(t, domain.FinalStatusConfirmed, result.Event.FinalStatus)
}

func TestAggregator_AnyFailureRejects(t *testing.T) {
	cases := []struct {
		name            string
		paymentStatus   string
		inventoryStatus string
	}{
		{"payment failed", domain.PaymentStatusFailed, domain.InventoryStatusReserved},
		{"inventory rejected", domain.PaymentStatusAuthorized, domain.InventoryStatusRejected},
		{"both failed", domain.PaymentStatusFailed, domain.InventoryStatusRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg := NewOrderStatusAggregator(zap.NewNop())

			result := agg.HandlePaymentOutcome("o-1", tc.paymentStatus, "corr-1")
			require.False(t, result.Completed)

			result = agg.HandleInventoryOutcome("o-1", tc.inventoryStatus, "corr-1")
			require.True(t, result.Completed)
			require.Equal(t, domain.FinalStatusRejected, result.Event.FinalStatus)
			require.Equal(t, tc.paymentStatus, result.Event.PaymentStatus)
			require.Equal(t, tc.inventoryStatus, result.Event.InventoryStatus)
		})
	}
}

func TestAggregator_RoundCleanupAllowsFreshRound(t *testing.T) {
	agg := NewOrderStatusAggregator(zap.NewNop())

	result := agg.HandlePaymentOutcome("o-1", domain.PaymentStatusFailed, "corr-1")
	require.False(t, result.Completed)
	result = agg.HandleInventoryOutcome("o-1", domain.InventoryStatusReserved, "corr-1")
	require.True(t, result.Completed)
	require.Equal(t, domain.FinalStatusRejected, result.Event.FinalStatus)

	// Same order id again: the previous round left no residue behind.
	result = agg.HandlePaymentOutcome("o-1", domain.PaymentStatusAuthorized, "corr-2")
	require.False(t, result.Completed)
	result = agg.HandleInventoryOutcome("o-1", domain.InventoryStatusReserved, "corr-2")
	require.True(t, result.Completed)
	require.Equal(t, domain.FinalStatusConfirmed, result.Event.FinalStatus)
	require.Equal(t, "corr-2", result.CorrelationID)
}

func TestAggregator_StickyCorrelationFirstWriterWins(t *testing.T) {
	agg := NewOrderStatusAggregator(zap.NewNop())

	agg.HandleInventoryOutcome("o-1", domain.InventoryStatusReserved, "corr-first")
	result := agg.HandlePaymentOutcome("o-1", domain.PaymentStatusAuthorized, "corr-second")

	require.True(t, result.Completed)
	require.Equal(t, "corr-first", result.CorrelationID)
}

func TestAggregator_DistinctOrdersDoNotInterfere(t *testing.T) {
	agg := NewOrderStatusAggregator(zap.NewNop())

	require.False(t, agg.HandlePaymentOutcome("o-1", domain.PaymentStatusAuthorized, "corr-1").Completed)
	require.False(t, agg.HandlePaymentOutcome("o-2", domain.PaymentStatusFailed, "corr-2").Completed)

	result := agg.HandleInventoryOutcome("o-2", domain.InventoryStatusReserved, "corr-2")
	require.True(t, result.Completed)
	require.Equal(t, domain.FinalStatusRejected, result.Event.FinalStatus)

	result = agg.HandleInventoryOutcome("o-1", domain.InventoryStatusReserved, "corr-1")
	require.True(t, result.Completed)
	require.Equal(t, domain.FinalStatusConfirmed, result.Event.FinalStatus)
}

func TestAggregator_ConcurrentOutcomesEmitExactlyOneEvent(t *testing.T) {
	agg := NewOrderStatusAggregator(zap.NewNop())

	for round := 0; round < 100; round++ {
		orderID := fmt.Sprintf("o-%d", round)

		var wg sync.WaitGroup
		var mu sync.Mutex
		completed := 0

		wg.Add(2)
		go func() {
			defer wg.Done()
			if agg.HandlePaymentOutcome(orderID, domain.PaymentStatusAuthorized, "corr").Completed {
				mu.Lock()
				completed++
				mu.Unlock()
			}
		}()
		go func() {
			defer wg.Done()
			if agg.HandleInventoryOutcome(orderID, domain.InventoryStatusReserved, "corr").Completed {
				mu.Lock()
				completed++
				mu.Unlock()
			}
		}()
		wg.Wait()

		require.Equal(t, 1, completed)
	}
}

func TestAggregator_UnknownStatusPanics(t *testing.T) {
	agg := NewOrderStatusAggregator(zap.NewNop())

	require.Panics(t, func() {
		agg.HandlePaymentOutcome("o-1", "DECLINED", "corr-1")
	})
	require.Panics(t, func() {
		agg.HandleInventoryOutcome("o-1", "BACKORDERED", "corr-1")
	})
}

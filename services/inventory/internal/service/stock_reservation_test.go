package service

import (
	"context"
	"testing"

	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStockReservationService_Reserved(t *testing.T) {
	ledger := NewLedger(DefaultStockLevels())
	svc := NewStockReservationService(ledger, zap.NewNop())

	event := domain.OrderCreated{
		OrderID: "o-1",
		Lines:   []domain.OrderLine{{SKU: "SKU-003", Qty: 25}},
	}

	env, err := svc.Reserve(context.Background(), event)

	require.NoError(t, err)
	require.Equal(t, domain.EventStockReserved, env.Event)

	var reserved domain.StockReserved
	require.NoError(t, env.Decode(&reserved))
	require.Equal(t, "o-1", reserved.OrderID)
	require.Equal(t, event.Lines, reserved.Lines)
	require.False(t, reserved.ReservedAt.IsZero())

	require.Equal(t, 175, ledger.Available("SKU-003"))
}

func TestStockReservationService_Rejected(t *testing.T) {
	ledger := NewLedger(DefaultStockLevels())
	svc := NewStockReservationService(ledger, zap.NewNop())

	event := domain.OrderCreated{
		OrderID: "o-2",
		Lines:   []domain.OrderLine{{SKU: "SKU-004", Qty: 1}},
	}

	env, err := svc.Reserve(context.Background(), event)

	require.NoError(t, err)
	require.Equal(t, domain.EventStockRejected, env.Event)

	var rejected domain.StockRejected
	require.NoError(t, env.Decode(&rejected))
	require.Equal(t, "o-2", rejected.OrderID)
	require.Equal(t, "Insufficient stock for SKU SKU-004: available=0, requested=1", rejected.Reason)
	require.False(t, rejected.RejectedAt.IsZero())
}

func TestStockReservationService_RejectionLeavesStockUntouched(t *testing.T) {
	ledger := NewLedger(DefaultStockLevels())
	svc := NewStockReservationService(ledger, zap.NewNop())

	event := domain.OrderCreated{
		OrderID: "o-3",
		Lines: []domain.OrderLine{
			{SKU: "SKU-005", Qty: 10},
			{SKU: "SKU-002", Qty: 51},
		},
	}

	env, err := svc.Reserve(context.Background(), event)

	require.NoError(t, err)
	require.Equal(t, domain.EventStockRejected, env.Event)
	require.Equal(t, 10, ledger.Available("SKU-005"))
	require.Equal(t, 50, ledger.Available("SKU-002"))
}

package service

import (
	"context"
	"testing"
	"time"

	sharedDomain "github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/services/query/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProjector_CreateThenApplyStatus(t *testing.T) {
	projector := NewMaterializedViewProjector(repository.NewMemoryViewStore(), zap.NewNop())
	ctx := context.Background()

	created := &sharedDomain.OrderCreated{
		OrderID:    "o-1",
		CustomerID: "c-1",
		Lines:      []sharedDomain.OrderLine{{SKU: "SKU-001", Qty: 2}},
		Total:      "199.98",
		Status:     "CREATED",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, projector.CreateFromOrderCreated(ctx, created))

	view, err := projector.FindByID(ctx, "o-1")
	require.NoError(t, err)
	require.Equal(t, "c-1", view.CustomerID)
	require.Equal(t, "199.98", view.Total)
	require.Equal(t, "CREATED", view.Status)
	require.Empty(t, view.FinalStatus)
	require.Nil(t, view.UpdatedAt)

	changed := &sharedDomain.OrderStatusChanged{
		OrderID:         "o-1",
		PaymentStatus:   sharedDomain.PaymentStatusAuthorized,
		InventoryStatus: sharedDomain.InventoryStatusReserved,
		FinalStatus:     sharedDomain.FinalStatusConfirmed,
		UpdatedAt:       time.Now(),
	}
	require.NoError(t, projector.UpdateFromStatusChanged(ctx, changed))

	view, err = projector.FindByID(ctx, "o-1")
	require.NoError(t, err)
	require.Equal(t, sharedDomain.PaymentStatusAuthorized, view.PaymentStatus)
	require.Equal(t, sharedDomain.InventoryStatusReserved, view.InventoryStatus)
	require.Equal(t, sharedDomain.FinalStatusConfirmed, view.FinalStatus)
	require.NotNil(t, view.UpdatedAt)

	// The intake fields survive the status patch.
	require.Equal(t, "c-1", view.CustomerID)
	require.Equal(t, created.Lines, view.Lines)
}

func TestProjector_StatusForUnknownOrderIsNoOp(t *testing.T) {
	projector := NewMaterializedViewProjector(repository.NewMemoryViewStore(), zap.NewNop())
	ctx := context.Background()

	changed := &sharedDomain.OrderStatusChanged{
		OrderID:     "o-missing",
		FinalStatus: sharedDomain.FinalStatusRejected,
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, projector.UpdateFromStatusChanged(ctx, changed))

	_, err := projector.FindByID(ctx, "o-missing")
	require.ErrorIs(t, err, repository.ErrViewNotFound)
}

func TestProjector_CreateOverwritesExistingView(t *testing.T) {
	projector := NewMaterializedViewProjector(repository.NewMemoryViewStore(), zap.NewNop())
	ctx := context.Background()

	first := &sharedDomain.OrderCreated{OrderID: "o-1", CustomerID: "c-1", Total: "10"}
	require.NoError(t, projector.CreateFromOrderCreated(ctx, first))

	second := &sharedDomain.OrderCreated{OrderID: "o-1", CustomerID: "c-1", Total: "20"}
	require.NoError(t, projector.CreateFromOrderCreated(ctx, second))

	view, err := projector.FindByID(ctx, "o-1")
	require.NoError(t, err)
	require.Equal(t, "20", view.Total)
}

func TestProjector_FindUnknownOrder(t *testing.T) {
	projector := NewMaterializedViewProjector(repository.NewMemoryViewStore(), zap.NewNop())

	_, err := projector.FindByID(context.Background(), "nope")
	require.ErrorIs(t, err, repository.ErrViewNotFound)
}

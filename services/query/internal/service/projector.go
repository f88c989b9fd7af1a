package service

import (
	"context"

	sharedDomain "github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/services/query/internal/domain"
	"github.com/streamcart/order-saga/services/query/internal/repository"
	"go.uber.org/zap"
)

// MaterializedViewProjector builds the eventually-consistent read model from
// the order and status streams.
type MaterializedViewProjector struct {
	store  repository.ViewStore
	logger *zap.Logger
}

func NewMaterializedViewProjector(store repository.ViewStore, logger *zap.Logger) *MaterializedViewProjector {
	return &MaterializedViewProjector{
		store:  store,
		logger: logger,
	}
}

func (p *MaterializedViewProjector) CreateFromOrderCreated(ctx context.Context, event *sharedDomain.OrderCreated) error {
	view := &domain.OrderView{
		OrderID:    event.OrderID,
		CustomerID: event.CustomerID,
		Lines:      event.Lines,
		Total:      event.Total,
		Status:     event.Status,
		CreatedAt:  event.CreatedAt,
	}

	if err := p.store.Create(ctx, view); err != nil {
		return err
	}

	mylogger.Info(ctx, p.logger, "Materialized view created", zap.String("order_id", event.OrderID))
	return nil
}

// UpdateFromStatusChanged patches the status fields of an existing view. An
// unknown order id is expected under event reordering and is not an error.
func (p *MaterializedViewProjector) UpdateFromStatusChanged(ctx context.Context, event *sharedDomain.OrderStatusChanged) error {
	if err := p.store.ApplyStatus(ctx, event); err != nil {
		return err
	}

	mylogger.Info(
		ctx,
		p.logger,
		"Materialized view updated",
		zap.String("order_id", event.OrderID),
		zap.String("final_status", event.FinalStatus),
	)
	return nil
}

func (p *MaterializedViewProjector) FindByID(ctx context.Context, id string) (*domain.OrderView, error) {
	return p.store.FindByID(ctx, id)
}

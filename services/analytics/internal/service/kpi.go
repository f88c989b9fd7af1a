package service

import (
	"context"

	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/services/analytics/internal/repository"
	"go.uber.org/zap"
)

// KpiAggregator maintains the count-by-status table over the full history of
// the status stream. The status domain is open-ended: every literal
// finalStatus value gets its own counter.
type KpiAggregator struct {
	store  repository.CounterStore
	logger *zap.Logger
}

func NewKpiAggregator(store repository.CounterStore, logger *zap.Logger) *KpiAggregator {
	return &KpiAggregator{
		store:  store,
		logger: logger,
	}
}

func (a *KpiAggregator) HandleStatusChanged(ctx context.Context, event *domain.OrderStatusChanged) error {
	if err := a.store.Increment(ctx, event.FinalStatus); err != nil {
		return err
	}

	mylogger.Info(
		ctx,
		a.logger,
		"Status count incremented",
		zap.String("order_id", event.OrderID),
		zap.String("final_status", event.FinalStatus),
	)
	return nil
}

func (a *KpiAggregator) StatusCounts(ctx context.Context) (map[string]int64, error) {
	return a.store.Snapshot(ctx)
}

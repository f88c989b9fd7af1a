package service

import (
	"context"
	"errors"
	"time"

	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"go.uber.org/zap"
)

// StockReservationService turns an OrderCreated event into exactly one
// reservation outcome. A rejection is a valid business result, not an error:
// the only error path is a failure to build the outbound envelope.
type StockReservationService struct {
	ledger *Ledger
	logger *zap.Logger
}

func NewStockReservationService(ledger *Ledger, logger *zap.Logger) *StockReservationService {
	return &StockReservationService{
		ledger: ledger,
		logger: logger,
	}
}

func (s *StockReservationService) Reserve(ctx context.Context, event domain.OrderCreated) (domain.Envelope, error) {
	err := s.ledger.Reserve(event.Lines)
	if err != nil {
		var insufficient *InsufficientStockError
		if !errors.As(err, &insufficient) {
			return domain.Envelope{}, err
		}

		mylogger.Info(
			ctx,
			s.logger,
			"Stock rejected",
			zap.String("order_id", event.OrderID),
			zap.String("sku", insufficient.SKU),
			zap.Int("available", insufficient.Available),
			zap.Int("requested", insufficient.Requested),
		)

		return domain.Wrap(domain.EventStockRejected, domain.StockRejected{
			OrderID:    event.OrderID,
			Reason:     insufficient.Error(),
			RejectedAt: time.Now(),
		})
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Stock reserved",
		zap.String("order_id", event.OrderID),
		zap.Int("lines", len(event.Lines)),
	)

	return domain.Wrap(domain.EventStockReserved, domain.StockReserved{
		OrderID:    event.OrderID,
		Lines:      event.Lines,
		ReservedAt: time.Now(),
	})
}

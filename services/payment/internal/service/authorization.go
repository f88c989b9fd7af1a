package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"go.uber.org/zap"
)

// PaymentAuthorizationService applies the authorization policy to an order
// total. Totals strictly below the threshold authorize; a total exactly
// equal to the threshold fails. No external gateway is involved.
type PaymentAuthorizationService struct {
	threshold decimal.Decimal
	logger    *zap.Logger
}

func NewPaymentAuthorizationService(threshold decimal.Decimal, logger *zap.Logger) *PaymentAuthorizationService {
	return &PaymentAuthorizationService{
		threshold: threshold,
		logger:    logger,
	}
}

// Authorize produces exactly one outcome per OrderCreated. An unparseable
// total is a structural failure the caller routes to the dead-letter topic.
func (s *PaymentAuthorizationService) Authorize(ctx context.Context, event domain.OrderCreated) (domain.Envelope, error) {
	amount, err := decimal.NewFromString(event.Total)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("order %s carries unparseable total %q: %w", event.OrderID, event.Total, err)
	}

	if amount.LessThan(s.threshold) {
		mylogger.Info(
			ctx,
			s.logger,
			"Payment authorized",
			zap.String("order_id", event.OrderID),
			zap.String("amount", amount.String()),
		)

		return domain.Wrap(domain.EventPaymentAuthorized, domain.PaymentAuthorized{
			OrderID:      event.OrderID,
			Amount:       amount.String(),
			AuthorizedAt: time.Now(),
		})
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Payment failed",
		zap.String("order_id", event.OrderID),
		zap.String("amount", amount.String()),
		zap.String("threshold", s.threshold.String()),
	)

	return domain.Wrap(domain.EventPaymentFailed, domain.PaymentFailed{
		OrderID:  event.OrderID,
		Reason:   fmt.Sprintf("Amount %s exceeds approval threshold of %s", amount.String(), s.threshold.String()),
		FailedAt: time.Now(),
	})
}

package kafka

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/idempotency"
	"github.com/streamcart/order-saga/pkg/kafka"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/pkg/topics"
	"github.com/streamcart/order-saga/services/payment/internal/service"
	"go.uber.org/zap"
)

const groupID = "payment-service"

type Consumer struct {
	service  *service.PaymentAuthorizationService
	producer kafka.Producer
	guard    *idempotency.Guard
	logger   *zap.Logger
}

func NewConsumer(
	service *service.PaymentAuthorizationService,
	producer kafka.Producer,
	guard *idempotency.Guard,
	logger *zap.Logger,
) *Consumer {
	return &Consumer{
		service:  service,
		producer: producer,
		guard:    guard,
		logger:   logger,
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string) {
	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		groupID,
		[]string{topics.Orders},
		c.processMessage,
		c.logger,
	)

	consumerGroup.Run(ctx)
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	env, err := kafka.DecodeEnvelope(msg.Value)
	if err != nil {
		kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
		return nil
	}

	switch env.Event {
	case domain.EventOrderCreated:
		var event domain.OrderCreated
		if err := env.Decode(&event); err != nil {
			kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
			return nil
		}

		if c.guard.Seen(event.OrderID) {
			mylogger.Info(ctx, c.logger, "Skipping duplicate event", zap.String("order_id", event.OrderID))
			return nil
		}

		outcome, err := c.service.Authorize(ctx, event)
		if err != nil {
			// Unparseable total is structural, not retryable.
			kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
			return nil
		}

		if err := c.producer.Publish(ctx, topics.Payments, event.OrderID, outcome); err != nil {
			mylogger.Error(
				ctx,
				c.logger,
				"Failed to publish authorization outcome",
				zap.String("order_id", event.OrderID),
				zap.String("event", outcome.Event),
				zap.Error(err),
			)
		}

		c.guard.MarkSeen(event.OrderID)
	default:
		mylogger.Warn(ctx, c.logger, "Ignored event type", zap.String("event_type", env.Event))
	}

	return nil
}

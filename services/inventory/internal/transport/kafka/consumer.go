package kafka

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/idempotency"
	"github.com/streamcart/order-saga/pkg/kafka"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/pkg/topics"
	"github.com/streamcart/order-saga/services/inventory/internal/service"
	"go.uber.org/zap"
)

const groupID = "inventory-service"

type Consumer struct {
	service  *service.StockReservationService
	producer kafka.Producer
	guard    *idempotency.Guard
	logger   *zap.Logger
}

func NewConsumer(
	service *service.StockReservationService,
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

		outcome, err := c.service.Reserve(ctx, event)
		if err != nil {
			mylogger.Error(ctx, c.logger, "Failed to build reservation outcome", zap.Error(err))
			return err
		}

		if err := c.producer.Publish(ctx, topics.Inventory, event.OrderID, outcome); err != nil {
			// At-least-once boundary: the outcome may be lost, the
			// inbound event is still acknowledged.
			mylogger.Error(
				ctx,
				c.logger,
				"Failed to publish reservation outcome",
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

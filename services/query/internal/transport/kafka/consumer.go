package kafka

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/idempotency"
	"github.com/streamcart/order-saga/pkg/kafka"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/pkg/topics"
	"github.com/streamcart/order-saga/services/query/internal/service"
	"go.uber.org/zap"
)

const groupID = "query-service"

type Consumer struct {
	projector   *service.MaterializedViewProjector
	producer    kafka.Producer
	orderGuard  *idempotency.Guard
	statusGuard *idempotency.Guard
	logger      *zap.Logger
}

func NewConsumer(
	projector *service.MaterializedViewProjector,
	producer kafka.Producer,
	orderGuard *idempotency.Guard,
	statusGuard *idempotency.Guard,
	logger *zap.Logger,
) *Consumer {
	return &Consumer{
		projector:   projector,
		producer:    producer,
		orderGuard:  orderGuard,
		statusGuard: statusGuard,
		logger:      logger,
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string) {
	dispatcher := kafka.NewDispatcher(c.logger)
	dispatcher.Register(topics.Orders, c.processOrderCreated)
	dispatcher.Register(topics.OrderStatus, c.processStatusChanged)

	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		groupID,
		dispatcher.Topics(),
		dispatcher.Handle,
		c.logger,
	)

	consumerGroup.Run(ctx)
}

func (c *Consumer) processOrderCreated(ctx context.Context, msg *sarama.ConsumerMessage) error {
	env, err := kafka.DecodeEnvelope(msg.Value)
	if err != nil {
		kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
		return nil
	}

	if env.Event != domain.EventOrderCreated {
		mylogger.Warn(ctx, c.logger, "Ignored event type on orders topic", zap.String("event_type", env.Event))
		return nil
	}

	var event domain.OrderCreated
	if err := env.Decode(&event); err != nil {
		kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
		return nil
	}

	eventKey := event.OrderID + "-order"
	if c.orderGuard.Seen(eventKey) {
		mylogger.Info(ctx, c.logger, "Skipping duplicate order created event", zap.String("order_id", event.OrderID))
		return nil
	}

	if err := c.projector.CreateFromOrderCreated(ctx, &event); err != nil {
		return err
	}

	c.orderGuard.MarkSeen(eventKey)
	return nil
}

func (c *Consumer) processStatusChanged(ctx context.Context, msg *sarama.ConsumerMessage) error {
	env, err := kafka.DecodeEnvelope(msg.Value)
	if err != nil {
		kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
		return nil
	}

	if env.Event != domain.EventOrderStatusChanged {
		mylogger.Warn(ctx, c.logger, "Ignored event type on status topic", zap.String("event_type", env.Event))
		return nil
	}

	var event domain.OrderStatusChanged
	if err := env.Decode(&event); err != nil {
		kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
		return nil
	}

	eventKey := event.OrderID + "-status"
	if c.statusGuard.Seen(eventKey) {
		mylogger.Info(ctx, c.logger, "Skipping duplicate status changed event", zap.String("order_id", event.OrderID))
		return nil
	}

	if err := c.projector.UpdateFromStatusChanged(ctx, &event); err != nil {
		return err
	}

	c.statusGuard.MarkSeen(eventKey)
	return nil
}

package kafka

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/idempotency"
	"github.com/streamcart/order-saga/pkg/kafka"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/pkg/topics"
	"github.com/streamcart/order-saga/services/analytics/internal/service"
	"go.uber.org/zap"
)

const groupID = "analytics-service"

type Consumer struct {
	aggregator *service.KpiAggregator
	producer   kafka.Producer
	guard      *idempotency.Guard
	logger     *zap.Logger
}

func NewConsumer(
	aggregator *service.KpiAggregator,
	producer kafka.Producer,
	guard *idempotency.Guard,
	logger *zap.Logger,
) *Consumer {
	return &Consumer{
		aggregator: aggregator,
		producer:   producer,
		guard:      guard,
		logger:     logger,
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string) {
	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		groupID,
		[]string{topics.OrderStatus},
		c.processStatusChanged,
		c.logger,
	)

	consumerGroup.Run(ctx)
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

	eventKey := event.OrderID + "-kpi"
	if c.guard.Seen(eventKey) {
		mylogger.Info(ctx, c.logger, "Skipping duplicate status changed event", zap.String("order_id", event.OrderID))
		return nil
	}

	if err := c.aggregator.HandleStatusChanged(ctx, &event); err != nil {
		return err
	}

	c.guard.MarkSeen(eventKey)
	return nil
}

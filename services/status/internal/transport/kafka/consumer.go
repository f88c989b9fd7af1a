package kafka

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/streamcart/order-saga/pkg/correlation"
	"github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/idempotency"
	"github.com/streamcart/order-saga/pkg/kafka"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/pkg/topics"
	"github.com/streamcart/order-saga/services/status/internal/service"
	"go.uber.org/zap"
)

const groupID = "status-service"

// Consumer feeds both outcome streams into the aggregator. Each stream is a
// separate listener role with its own idempotency guard; keys are namespaced
// so one order flowing through both roles never collides.
type Consumer struct {
	aggregator     *service.OrderStatusAggregator
	producer       kafka.Producer
	paymentGuard   *idempotency.Guard
	inventoryGuard *idempotency.Guard
	logger         *zap.Logger
}

func NewConsumer(
	aggregator *service.OrderStatusAggregator,
	producer kafka.Producer,
	paymentGuard *idempotency.Guard,
	inventoryGuard *idempotency.Guard,
	logger *zap.Logger,
) *Consumer {
	return &Consumer{
		aggregator:     aggregator,
		producer:       producer,
		paymentGuard:   paymentGuard,
		inventoryGuard: inventoryGuard,
		logger:         logger,
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string) {
	dispatcher := kafka.NewDispatcher(c.logger)
	dispatcher.Register(topics.Payments, c.processPaymentOutcome)
	dispatcher.Register(topics.Inventory, c.processInventoryOutcome)

	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		groupID,
		dispatcher.Topics(),
		dispatcher.Handle,
		c.logger,
	)

	consumerGroup.Run(ctx)
}

func (c *Consumer) processPaymentOutcome(ctx context.Context, msg *sarama.ConsumerMessage) error {
	env, err := kafka.DecodeEnvelope(msg.Value)
	if err != nil {
		kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
		return nil
	}

	var orderID, paymentStatus string

	switch env.Event {
	case domain.EventPaymentAuthorized:
		var event domain.PaymentAuthorized
		if err := env.Decode(&event); err != nil {
			kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
			return nil
		}
		orderID, paymentStatus = event.OrderID, domain.PaymentStatusAuthorized
	case domain.EventPaymentFailed:
		var event domain.PaymentFailed
		if err := env.Decode(&event); err != nil {
			kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
			return nil
		}
		orderID, paymentStatus = event.OrderID, domain.PaymentStatusFailed
	default:
		mylogger.Warn(ctx, c.logger, "Ignored event type on payments topic", zap.String("event_type", env.Event))
		return nil
	}

	eventKey := orderID + "-payment"
	if c.paymentGuard.Seen(eventKey) {
		mylogger.Info(ctx, c.logger, "Skipping duplicate payment outcome", zap.String("order_id", orderID))
		return nil
	}

	correlationID, _ := correlation.FromContext(ctx)
	result := c.aggregator.HandlePaymentOutcome(orderID, paymentStatus, correlationID)
	c.publishIfComplete(ctx, result)

	c.paymentGuard.MarkSeen(eventKey)
	return nil
}

func (c *Consumer) processInventoryOutcome(ctx context.Context, msg *sarama.ConsumerMessage) error {
	env, err := kafka.DecodeEnvelope(msg.Value)
	if err != nil {
		kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
		return nil
	}

	var orderID, inventoryStatus string

	switch env.Event {
	case domain.EventStockReserved:
		var event domain.StockReserved
		if err := env.Decode(&event); err != nil {
			kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
			return nil
		}
		orderID, inventoryStatus = event.OrderID, domain.InventoryStatusReserved
	case domain.EventStockRejected:
		var event domain.StockRejected
		if err := env.Decode(&event); err != nil {
			kafka.SendToDeadLetter(ctx, c.producer, c.logger, msg, err)
			return nil
		}
		orderID, inventoryStatus = event.OrderID, domain.InventoryStatusRejected
	default:
		mylogger.Warn(ctx, c.logger, "Ignored event type on inventory topic", zap.String("event_type", env.Event))
		return nil
	}

	eventKey := orderID + "-inventory"
	if c.inventoryGuard.Seen(eventKey) {
		mylogger.Info(ctx, c.logger, "Skipping duplicate inventory outcome", zap.String("order_id", orderID))
		return nil
	}

	correlationID, _ := correlation.FromContext(ctx)
	result := c.aggregator.HandleInventoryOutcome(orderID, inventoryStatus, correlationID)
	c.publishIfComplete(ctx, result)

	c.inventoryGuard.MarkSeen(eventKey)
	return nil
}

func (c *Consumer) publishIfComplete(ctx context.Context, result service.Result) {
	if !result.Completed {
		return
	}

	// The terminal event goes out under the round's sticky token, which may
	// belong to the first-arrived outcome rather than the current record.
	if result.CorrelationID != "" {
		ctx = correlation.NewContext(ctx, result.CorrelationID)
	}

	env, err := domain.Wrap(domain.EventOrderStatusChanged, result.Event)
	if err != nil {
		mylogger.Error(ctx, c.logger, "Failed to build status changed envelope", zap.Error(err))
		return
	}

	if err := c.producer.Publish(ctx, topics.OrderStatus, result.Event.OrderID, env); err != nil {
		mylogger.Error(
			ctx,
			c.logger,
			"Failed to publish status changed event",
			zap.String("order_id", result.Event.OrderID),
			zap.String("event", env.Event),
			zap.Error(err),
		)
	}
}

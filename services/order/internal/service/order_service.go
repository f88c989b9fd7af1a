package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	common "github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/kafka"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/pkg/topics"
	"github.com/streamcart/order-saga/services/order/internal/domain"
	"github.com/streamcart/order-saga/services/order/internal/repository"
	"go.uber.org/zap"
)

type OrderService struct {
	store    repository.OrderStore
	producer kafka.Producer
	logger   *zap.Logger
}

func NewOrderService(store repository.OrderStore, producer kafka.Producer, logger *zap.Logger) *OrderService {
	return &OrderService{
		store:    store,
		producer: producer,
		logger:   logger,
	}
}

// CreateOrder accepts the order, persists it and announces it on the orders
// topic. The announcement is best effort: a publish failure is logged but the
// accepted order is not rolled back.
func (s *OrderService) CreateOrder(ctx context.Context, customerID string, lines []common.OrderLine, total string) (*domain.Order, error) {
	order := &domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Lines:      lines,
		Total:      total,
		Status:     domain.StatusCreated,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.Save(ctx, order); err != nil {
		return nil, err
	}

	event := common.OrderCreated{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Lines:      order.Lines,
		Total:      order.Total,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
	}

	envelope, err := common.Wrap(common.EventOrderCreated, event)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Failed to encode order created event", zap.String("order_id", order.ID), zap.Error(err))
		return order, nil
	}

	if err := s.producer.Publish(ctx, topics.Orders, order.ID, envelope); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to publish order created event", zap.String("order_id", order.ID), zap.Error(err))
		return order, nil
	}

	mylogger.Info(ctx, s.logger, "Order created", zap.String("order_id", order.ID), zap.String("customer_id", order.CustomerID))
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.store.FindByID(ctx, id)
}

package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/streamcart/order-saga/services/order/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderStore interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}

type memoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

func NewMemoryOrderStore() OrderStore {
	return &memoryOrderStore{
		orders: make(map[string]domain.Order),
	}
}

func (s *memoryOrderStore) Save(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[order.ID] = *order
	return nil
}

func (s *memoryOrderStore) FindByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}

	return &order, nil
}

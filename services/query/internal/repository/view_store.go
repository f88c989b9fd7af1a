package repository

import (
	"context"
	"errors"
	"sync"

	sharedDomain "github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/services/query/internal/domain"
)

var ErrViewNotFound = errors.New("order view not found")

// ViewStore is the read-model store behind the projector. Create overwrites
// any prior view for the same order; ApplyStatus on an unknown order is a
// silent no-op, since the view may not exist yet under cross-service skew.
type ViewStore interface {
	Create(ctx context.Context, view *domain.OrderView) error
	ApplyStatus(ctx context.Context, event *sharedDomain.OrderStatusChanged) error
	FindByID(ctx context.Context, id string) (*domain.OrderView, error)
}

type memoryViewStore struct {
	mu    sync.RWMutex
	views map[string]*domain.OrderView
}

// NewMemoryViewStore backs the projector with a process-local map. Tests and
// local runs use it in place of the Postgres store.
func NewMemoryViewStore() ViewStore {
	return &memoryViewStore{views: make(map[string]*domain.OrderView)}
}

func (s *memoryViewStore) Create(_ context.Context, view *domain.OrderView) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *view
	s.views[view.OrderID] = &copied
	return nil
}

func (s *memoryViewStore) ApplyStatus(_ context.Context, event *sharedDomain.OrderStatusChanged) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.views[event.OrderID]
	if !ok {
		return nil
	}

	view.PaymentStatus = event.PaymentStatus
	view.InventoryStatus = event.InventoryStatus
	view.FinalStatus = event.FinalStatus
	updatedAt := event.UpdatedAt
	view.UpdatedAt = &updatedAt
	return nil
}

func (s *memoryViewStore) FindByID(_ context.Context, id string) (*domain.OrderView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view, ok := s.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}

	copied := *view
	return &copied, nil
}

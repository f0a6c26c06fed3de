package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"phone_orders/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCallID   = errors.New("call id is empty")
	ErrNilOrder      = errors.New("order is nil")
)

// OrderStore holds pending orders keyed by call identifier.
type OrderStore interface {
	Get(ctx context.Context, callID string) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, callID string) (bool, error)
	// Sweep removes orders last updated before olderThan and returns how many were removed.
	Sweep(ctx context.Context, olderThan time.Time) (int, error)
}

type memoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
}

func NewMemoryOrderStore() OrderStore {
	return &memoryOrderStore{orders: make(map[string]*models.Order)}
}

func (s *memoryOrderStore) Get(_ context.Context, callID string) (*models.Order, error) {
	if strings.TrimSpace(callID) == "" {
		return nil, ErrEmptyCallID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[callID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return order.Clone(), nil
}

func (s *memoryOrderStore) Save(_ context.Context, order *models.Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if strings.TrimSpace(order.CallID) == "" {
		return ErrEmptyCallID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[order.CallID] = order.Clone()
	return nil
}

func (s *memoryOrderStore) Delete(_ context.Context, callID string) (bool, error) {
	if strings.TrimSpace(callID) == "" {
		return false, ErrEmptyCallID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.orders[callID]
	delete(s.orders, callID)
	return ok, nil
}

func (s *memoryOrderStore) Sweep(_ context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for callID, order := range s.orders {
		if order.UpdatedAt.Before(olderThan) {
			delete(s.orders, callID)
			removed++
		}
	}
	return removed, nil
}

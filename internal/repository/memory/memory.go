// Package memory is an in-process order store with the same contract as the
// postgres repository. It backs tests and STORE_DRIVER=memory local runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jeffleon2/draftea-storefront-service/internal/models"
)

type Option func(*OrderStore)

// WithLatency delays every update by d, simulating a slow database. If the
// context ends first the update is abandoned and nothing is written.
func WithLatency(d time.Duration) Option {
	return func(s *OrderStore) {
		s.latency = d
	}
}

type OrderStore struct {
	mu      sync.Mutex
	orders  map[string]models.Order
	latency time.Duration
	updates int
}

func NewOrderStore(orders []models.Order, opts ...Option) *OrderStore {
	s := &OrderStore{
		orders: make(map[string]models.Order, len(orders)),
	}
	for _, o := range orders {
		s.orders[o.ID] = o.Clone()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OrderStore) UpdatePaidAndFetch(ctx context.Context, orderID string) (*models.Order, error) {
	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-ctx.Done():
			return nil, fmt.Errorf("error updating order %s: %w", orderID, ctx.Err())
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("error updating order %s: %w", orderID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrOrderNotFound)
	}

	order.IsPaid = true
	order.UpdatedAt = time.Now().UTC()
	s.orders[orderID] = order
	s.updates++

	updated := order.Clone()
	return &updated, nil
}

// Get returns a copy of the stored order.
func (s *OrderStore) Get(orderID string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return models.Order{}, false
	}
	return order.Clone(), true
}

// Updates reports how many successful paid updates have been applied.
func (s *OrderStore) Updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

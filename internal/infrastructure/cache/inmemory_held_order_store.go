package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared"
)

// InMemoryHeldOrderStore implements pos.HeldOrderStore using a map
// Suitable for a single-terminal deployment without Redis, and for
// testing. Held orders do not survive a restart
type InMemoryHeldOrderStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]pos.HeldOrder
}

// NewInMemoryHeldOrderStore creates a new in-memory held order registry
func NewInMemoryHeldOrderStore() *InMemoryHeldOrderStore {
	return &InMemoryHeldOrderStore{
		orders: make(map[uuid.UUID]pos.HeldOrder),
	}
}

// Put appends a held order to the registry
func (s *InMemoryHeldOrderStore) Put(ctx context.Context, order *pos.HeldOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = *order
	return nil
}

// Take removes and returns a held order; the delete under the same lock
// keeps resume at-most-once
func (s *InMemoryHeldOrderStore) Take(ctx context.Context, id uuid.UUID) (*pos.HeldOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, shared.ErrNotFound
	}
	delete(s.orders, id)
	return &order, nil
}

// List returns all held orders, oldest first
func (s *InMemoryHeldOrderStore) List(ctx context.Context) ([]pos.HeldOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]pos.HeldOrder, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].HeldAt.Before(orders[j].HeldAt)
	})
	return orders, nil
}

var _ pos.HeldOrderStore = (*InMemoryHeldOrderStore)(nil)

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/helpbridge/helpbridge/internal/domain"
)

type pendingOrder struct {
	order     domain.PaymentOrder
	expiresAt time.Time
}

// PendingOrderStore is the in-memory counterpart of the redis order cache.
type PendingOrderStore struct {
	mu   sync.Mutex
	rows map[string]pendingOrder
}

func NewPendingOrderStore() *PendingOrderStore {
	return &PendingOrderStore{rows: make(map[string]pendingOrder)}
}

func (s *PendingOrderStore) Save(_ context.Context, order domain.PaymentOrder, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[order.OrderID] = pendingOrder{order: order, expiresAt: time.Now().UTC().Add(ttl)}
	return nil
}

func (s *PendingOrderStore) Get(_ context.Context, orderID string) (*domain.PaymentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[orderID]
	if !ok {
		return nil, nil
	}
	if time.Now().UTC().After(row.expiresAt) {
		delete(s.rows, orderID)
		return nil, nil
	}
	clone := row.order
	return &clone, nil
}

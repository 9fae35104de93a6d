package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/helpbridge/helpbridge/internal/domain"
	"github.com/redis/go-redis/v9"
)

const orderKeyPrefix = "helpbridge:pending_order:"

// OrderStore caches pending payment orders in Redis with a TTL matching the
// gateway's order validity window. A cache miss means the cross-check at
// settlement is skipped, never that settlement fails.
type OrderStore struct {
	client *redis.Client
}

func NewOrderStore(client *redis.Client) *OrderStore {
	return &OrderStore{client: client}
}

func (s *OrderStore) Save(ctx context.Context, order domain.PaymentOrder, ttl time.Duration) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal pending order: %w", err)
	}
	if err := s.client.Set(ctx, orderKeyPrefix+order.OrderID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("save pending order: %w", err)
	}
	return nil
}

func (s *OrderStore) Get(ctx context.Context, orderID string) (*domain.PaymentOrder, error) {
	raw, err := s.client.Get(ctx, orderKeyPrefix+orderID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load pending order: %w", err)
	}
	var order domain.PaymentOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decode pending order: %w", err)
	}
	return &order, nil
}

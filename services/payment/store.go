package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mindease/models"

	"github.com/go-redis/redis/v8"
)

const orderKeyPrefix = "paymentOrder:"

// Orders live long enough that a callback arriving well after the user
// abandoned the checkout surface still finds its order.
const orderTTL = 24 * time.Hour

// RedisOrderStore implements OrderStore on Redis with a TTL per order.
type RedisOrderStore struct {
	client *redis.Client
}

func NewRedisOrderStore(client *redis.Client) *RedisOrderStore {
	return &RedisOrderStore{client: client}
}

func (s *RedisOrderStore) Save(ctx context.Context, order *models.PaymentOrder) error {
	order.UpdatedAt = time.Now()
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal payment order: %w", err)
	}
	if err := s.client.Set(ctx, orderKeyPrefix+order.OrderID, data, orderTTL).Err(); err != nil {
		return fmt.Errorf("failed to save payment order: %w", err)
	}
	return nil
}

func (s *RedisOrderStore) Get(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	data, err := s.client.Get(ctx, orderKeyPrefix+orderID).Result()
	if err != nil {
		return nil, fmt.Errorf("payment order %s not found: %w", orderID, err)
	}
	var order models.PaymentOrder
	if err := json.Unmarshal([]byte(data), &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment order: %w", err)
	}
	return &order, nil
}

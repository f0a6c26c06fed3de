package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"phone_orders/internal/models"
	"phone_orders/internal/redis"
)

const orderKeyPrefix = "order:"

type redisOrderStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisOrderStore keeps pending orders in Redis. Entries expire after ttl of inactivity,
// so Sweep has nothing to do.
func NewRedisOrderStore(client *redis.Client, ttl time.Duration) OrderStore {
	return &redisOrderStore{client: client, ttl: ttl}
}

func orderKey(callID string) (string, error) {
	if strings.TrimSpace(callID) == "" {
		return "", ErrEmptyCallID
	}
	return orderKeyPrefix + callID, nil
}

func (s *redisOrderStore) Get(ctx context.Context, callID string) (*models.Order, error) {
	key, err := orderKey(callID)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := s.client.GetJSON(ctx, key, &order); err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order %s: %w", callID, err)
	}
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}
	return &order, nil
}

func (s *redisOrderStore) Save(ctx context.Context, order *models.Order) error {
	if order == nil {
		return ErrNilOrder
	}
	key, err := orderKey(order.CallID)
	if err != nil {
		return err
	}
	if err := s.client.SetJSON(ctx, key, order, s.ttl); err != nil {
		return fmt.Errorf("save order %s: %w", order.CallID, err)
	}
	return nil
}

func (s *redisOrderStore) Delete(ctx context.Context, callID string) (bool, error) {
	key, err := orderKey(callID)
	if err != nil {
		return false, err
	}
	n, err := s.client.Delete(ctx, key)
	if err != nil {
		return false, fmt.Errorf("delete order %s: %w", callID, err)
	}
	return n > 0, nil
}

func (s *redisOrderStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

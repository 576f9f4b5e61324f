package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisHeldOrderStore implements pos.HeldOrderStore using Redis
// The registry is shared by the sessions at one terminal; GETDEL makes
// Take atomic, so a held order can be resumed at most once even when
// two sessions race for it
type RedisHeldOrderStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisHeldOrderStore creates a new Redis-based held order registry
func NewRedisHeldOrderStore(cfg RedisConfig, ttl time.Duration) (*RedisHeldOrderStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisHeldOrderStoreWithClient(client, "", ttl), nil
}

// NewRedisHeldOrderStoreWithClient creates a registry with an existing
// Redis client. Useful for testing or sharing a client across components
func NewRedisHeldOrderStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisHeldOrderStore {
	if keyPrefix == "" {
		keyPrefix = "pos:held:"
	}
	return &RedisHeldOrderStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Put appends a held order to the registry
func (s *RedisHeldOrderStore) Put(ctx context.Context, order *pos.HeldOrder) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to serialize held order: %w", err)
	}
	return s.client.Set(ctx, s.keyPrefix+order.ID.String(), payload, s.ttl).Err()
}

// Take removes and returns a held order
// GETDEL is a single round trip, so concurrent takers cannot both win
func (s *RedisHeldOrderStore) Take(ctx context.Context, id uuid.UUID) (*pos.HeldOrder, error) {
	data, err := s.client.GetDel(ctx, s.keyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to take held order: %w", err)
	}

	var order pos.HeldOrder
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to deserialize held order: %w", err)
	}
	return &order, nil
}

// List returns all held orders, oldest first
func (s *RedisHeldOrderStore) List(ctx context.Context) ([]pos.HeldOrder, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan held orders: %w", err)
	}
	if len(keys) == 0 {
		return []pos.HeldOrder{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load held orders: %w", err)
	}

	orders := make([]pos.HeldOrder, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var order pos.HeldOrder
		if err := json.Unmarshal([]byte(raw), &order); err != nil {
			return nil, fmt.Errorf("failed to deserialize held order: %w", err)
		}
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].HeldAt.Before(orders[j].HeldAt)
	})
	return orders, nil
}

// Close closes the Redis client
func (s *RedisHeldOrderStore) Close() error {
	return s.client.Close()
}

var _ pos.HeldOrderStore = (*RedisHeldOrderStore)(nil)

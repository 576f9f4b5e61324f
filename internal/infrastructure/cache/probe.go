package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pos/backend/internal/domain/pos"
)

// RedisProbe reports connectivity by pinging Redis
// The shared registry stands in for the back office: if the terminal
// cannot reach it, finalized sales go to the offline queue
type RedisProbe struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisProbe creates a probe around an existing Redis client
func NewRedisProbe(client *redis.Client, timeout time.Duration) *RedisProbe {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &RedisProbe{client: client, timeout: timeout}
}

// IsOnline returns true when Redis answers a ping within the timeout
func (p *RedisProbe) IsOnline(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.client.Ping(ctx).Err() == nil
}

// ManualProbe is a connectivity switch flipped by an operator or test
// Terminals without a shared registry run permanently "online" against
// their local database unless told otherwise
type ManualProbe struct {
	online atomic.Bool
}

// NewManualProbe creates a probe in the given initial state
func NewManualProbe(online bool) *ManualProbe {
	p := &ManualProbe{}
	p.online.Store(online)
	return p
}

// SetOnline flips the connectivity state
func (p *ManualProbe) SetOnline(online bool) {
	p.online.Store(online)
}

// IsOnline returns the current connectivity state
func (p *ManualProbe) IsOnline(ctx context.Context) bool {
	return p.online.Load()
}

var (
	_ pos.ConnectivityProbe = (*RedisProbe)(nil)
	_ pos.ConnectivityProbe = (*ManualProbe)(nil)
)

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/civicpulse/backend/internal/domain/providers"
	redisclient "github.com/civicpulse/backend/internal/infrastructure/clients/redis"
	"github.com/redis/go-redis/v9"
)

// RedisAdapter implements the CounterStore interface using Redis
type RedisAdapter struct {
	client redis.Cmdable
	prefix string
}

// NewRedisAdapter creates a new Redis counter adapter
func NewRedisAdapter(client *redisclient.Client) providers.CounterStore {
	return newRedisAdapter(client.Client())
}

func newRedisAdapter(client redis.Cmdable) *RedisAdapter {
	return &RedisAdapter{
		client: client,
		prefix: "ratelimit:",
	}
}

// Increment bumps the counter and reads its TTL in one round trip. The
// expiry is set only when the key has none, so the window never slides.
func (a *RedisAdapter) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	key = a.prefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	remaining := ttl.Val()
	if remaining <= 0 {
		if err := a.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("failed to set counter expiry: %w", err)
		}
		remaining = window
	}
	return incr.Val(), remaining, nil
}

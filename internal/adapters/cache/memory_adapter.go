package cache

import (
	"context"
	"sync"
	"time"

	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type windowCounter struct {
	count   int64
	resetAt time.Time
}

// MemoryAdapter is an in-process CounterStore. Counters are per instance and
// the number of tracked keys is bounded; the least recently used are evicted.
type MemoryAdapter struct {
	mu       sync.Mutex
	counters *expirable.LRU[string, *windowCounter]
	now      func() time.Time
}

// NewMemoryAdapter creates a counter store tracking at most size keys whose
// entries expire after ttl.
func NewMemoryAdapter(size int, ttl time.Duration) *MemoryAdapter {
	if size <= 0 {
		size = 10000
	}
	return &MemoryAdapter{
		counters: expirable.NewLRU[string, *windowCounter](size, nil, ttl),
		now:      time.Now,
	}
}

// Increment implements providers.CounterStore.
func (a *MemoryAdapter) Increment(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	c, ok := a.counters.Get(key)
	if !ok || !now.Before(c.resetAt) {
		c = &windowCounter{resetAt: now.Add(window)}
		a.counters.Add(key, c)
	}
	c.count++
	return c.count, c.resetAt.Sub(now), nil
}

var _ providers.CounterStore = (*MemoryAdapter)(nil)

package providers

import (
	"context"
	"time"
)

// CounterStore holds fixed-window request counters shared between instances.
type CounterStore interface {
	// Increment adds one to key, starting a window of the given length on
	// first use. It returns the new count and the time left in the window.
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
)

// RateLimiter throttles requests per hashed client address in fixed windows.
type RateLimiter struct {
	store    providers.CounterStore
	fallback providers.CounterStore
	limit    int64
	window   time.Duration
	salt     string
	metrics  *observability.Metrics
	trusted  TrustedProxies
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// fallback serves when store is nil or returns an error.
func NewRateLimiter(store, fallback providers.CounterStore, limit int, window time.Duration, salt string, metrics *observability.Metrics) *RateLimiter {
	if store == nil {
		store = fallback
	}
	return &RateLimiter{
		store:    store,
		fallback: fallback,
		limit:    int64(limit),
		window:   window,
		salt:     salt,
		metrics:  metrics,
	}
}

// SetTrustedProxies lists the reverse proxies whose forwarding headers are
// believed. Without any, the peer address alone keys the counter.
func (l *RateLimiter) SetTrustedProxies(trusted TrustedProxies) {
	l.trusted = trusted
}

// Limit wraps next with the request budget.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		key := l.Key(ClientIP(r, l.trusted))

		count, ttl, err := l.store.Increment(ctx, key, l.window)
		if err != nil && l.fallback != nil && l.fallback != l.store {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("rate limit store unavailable, using in-process counters")
			count, ttl, err = l.fallback.Increment(ctx, key, l.window)
		}
		if err != nil {
			// Fail open.
			observability.LoggerFromContext(ctx).Error().Err(err).Msg("rate limit check failed")
			next.ServeHTTP(w, r)
			return
		}

		remaining := l.limit - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(l.limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > l.limit {
			retryAfter := int(math.Ceil(ttl.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			route := r.Pattern
			if route == "" {
				route = r.URL.Path
			}
			observability.RecordRateLimited(ctx, l.metrics, route)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "Too many requests", fmt.Sprintf("retry in %d seconds", retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Key returns the counter key for a client address; the address itself is never stored.
func (l *RateLimiter) Key(ip string) string {
	sum := sha256.Sum256([]byte(l.salt + "|" + ip))
	return "public-chat:" + hex.EncodeToString(sum[:])
}

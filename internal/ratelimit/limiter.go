package ratelimit

import (
	"context"
	"log"
	"time"
)

const (
	// Window and Limit define the throttling policy: at most Limit requests
	// per client identifier within each fixed Window.
	Window = 15 * time.Minute
	Limit  = 20

	keyPrefix = "ratelimit:"
)

// CounterStore is the slice of the counter service the limiter needs. Window
// expiry is owned by the store via the TTL set on first increment; the
// limiter itself does not track window boundaries.
type CounterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	GetCount(ctx context.Context, key string) (int64, bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Limiter decides per client identifier whether a request may proceed.
// When the store is unreachable it fails open: availability over strict
// enforcement, since this service is a public demonstration.
type Limiter struct {
	store CounterStore
}

// NewLimiter wraps store. A nil store yields a limiter that never throttles.
func NewLimiter(store CounterStore) *Limiter {
	return &Limiter{store: store}
}

// ShouldThrottle reports whether clientID has exhausted its window. A client
// at the ceiling is rejected without incrementing, so waiting out the window
// is never pushed back by rejected attempts.
func (l *Limiter) ShouldThrottle(ctx context.Context, clientID string) bool {
	if l == nil || l.store == nil {
		return false
	}
	key := keyPrefix + clientID

	count, ok, err := l.store.GetCount(ctx, key)
	if err != nil {
		log.Printf("rate limit read failed for %s, allowing request: %v", clientID, err)
		return false
	}
	if ok && count >= Limit {
		return true
	}

	n, err := l.store.Incr(ctx, key)
	if err != nil {
		log.Printf("rate limit increment failed for %s, allowing request: %v", clientID, err)
		return false
	}
	if n == 1 {
		if err := l.store.Expire(ctx, key, Window); err != nil {
			log.Printf("rate limit expiry set failed for %s: %v", clientID, err)
		}
	}
	return false
}

// Reset clears the counter for clientID. Administrative escape hatch for
// stores that never expired a key.
func (l *Limiter) Reset(ctx context.Context, clientID string) error {
	if l == nil || l.store == nil {
		return nil
	}
	return l.store.Del(ctx, keyPrefix+clientID)
}

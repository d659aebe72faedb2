package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	counts  map[string]int64
	ttls    map[string]time.Duration
	failAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{counts: make(map[string]int64), ttls: make(map[string]time.Duration)}
}

var errStoreDown = errors.New("store unreachable")

func (s *fakeStore) Incr(_ context.Context, key string) (int64, error) {
	if s.failAll {
		return 0, errStoreDown
	}
	s.counts[key]++
	return s.counts[key], nil
}

func (s *fakeStore) GetCount(_ context.Context, key string) (int64, bool, error) {
	if s.failAll {
		return 0, false, errStoreDown
	}
	n, ok := s.counts[key]
	return n, ok, nil
}

func (s *fakeStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	if s.failAll {
		return errStoreDown
	}
	s.ttls[key] = ttl
	return nil
}

func (s *fakeStore) Del(_ context.Context, keys ...string) error {
	if s.failAll {
		return errStoreDown
	}
	for _, k := range keys {
		delete(s.counts, k)
	}
	return nil
}

func TestLimiterAllowsUpToCeiling(t *testing.T) {
	store := newFakeStore()
	limiter := NewLimiter(store)
	ctx := context.Background()

	for i := 1; i <= Limit; i++ {
		if limiter.ShouldThrottle(ctx, "10.0.0.1") {
			t.Fatalf("request %d throttled below ceiling", i)
		}
	}
	if !limiter.ShouldThrottle(ctx, "10.0.0.1") {
		t.Fatalf("request %d not throttled", Limit+1)
	}
}

func TestLimiterThrottleDoesNotIncrement(t *testing.T) {
	store := newFakeStore()
	limiter := NewLimiter(store)
	ctx := context.Background()

	for i := 0; i < Limit; i++ {
		limiter.ShouldThrottle(ctx, "10.0.0.2")
	}
	for i := 0; i < 5; i++ {
		if !limiter.ShouldThrottle(ctx, "10.0.0.2") {
			t.Fatalf("expected throttle at ceiling")
		}
	}
	if got := store.counts["ratelimit:10.0.0.2"]; got != Limit {
		t.Fatalf("rejected requests moved the counter: want %d got %d", Limit, got)
	}
}

func TestLimiterClientsAreIndependent(t *testing.T) {
	store := newFakeStore()
	limiter := NewLimiter(store)
	ctx := context.Background()

	for i := 0; i < Limit; i++ {
		limiter.ShouldThrottle(ctx, "10.0.0.3")
	}
	if limiter.ShouldThrottle(ctx, "10.0.0.4") {
		t.Fatalf("fresh client throttled by another client's counter")
	}
}

func TestLimiterSetsWindowOnFirstRequest(t *testing.T) {
	store := newFakeStore()
	limiter := NewLimiter(store)
	ctx := context.Background()

	limiter.ShouldThrottle(ctx, "10.0.0.5")
	if got := store.ttls["ratelimit:10.0.0.5"]; got != Window {
		t.Fatalf("expected window TTL %v on first increment, got %v", Window, got)
	}
	limiter.ShouldThrottle(ctx, "10.0.0.5")
	if got := store.counts["ratelimit:10.0.0.5"]; got != 2 {
		t.Fatalf("expected count 2, got %d", got)
	}
}

func TestLimiterFailsOpenWhenStoreUnavailable(t *testing.T) {
	store := newFakeStore()
	store.failAll = true
	limiter := NewLimiter(store)
	ctx := context.Background()

	for i := 0; i < Limit*3; i++ {
		if limiter.ShouldThrottle(ctx, "10.0.0.6") {
			t.Fatalf("throttled while store unavailable")
		}
	}
}

func TestLimiterNilStoreNeverThrottles(t *testing.T) {
	limiter := NewLimiter(nil)
	for i := 0; i < Limit*2; i++ {
		if limiter.ShouldThrottle(context.Background(), "10.0.0.7") {
			t.Fatalf("nil store limiter throttled")
		}
	}
}

func TestLimiterReset(t *testing.T) {
	store := newFakeStore()
	limiter := NewLimiter(store)
	ctx := context.Background()

	for i := 0; i < Limit+1; i++ {
		limiter.ShouldThrottle(ctx, "10.0.0.8")
	}
	if err := limiter.Reset(ctx, "10.0.0.8"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if limiter.ShouldThrottle(ctx, "10.0.0.8") {
		t.Fatalf("throttled immediately after reset")
	}
}

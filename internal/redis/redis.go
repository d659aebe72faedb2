package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"personachat/internal/config"

	redis "github.com/redis/go-redis/v9"
)

// Client wraps go-redis to centralize configuration and keep every call
// bounded by a short timeout, so an unreachable store surfaces as an error
// instead of stalling request handling.
type Client struct {
	inner *redis.Client
}

// ErrNotInitialized is returned when the client was never connected.
var ErrNotInitialized = errors.New("redis client not initialized")

const (
	callTimeout    = 2 * time.Second
	connectRetries = 4
	connectBackoff = 500 * time.Millisecond
)

// NewClient creates the redis client from app config. Connection is verified
// with a ping, retried with exponential backoff up to connectRetries times.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	backoff := connectBackoff
	var lastErr error
	for attempt := 0; attempt < connectRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		lastErr = client.Ping(ctx).Err()
		cancel()
		if lastErr == nil {
			return &Client{inner: client}, nil
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	client.Close()
	return nil, lastErr
}

// Incr atomically increments the counter at key and returns the new value.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	if c == nil || c.inner == nil {
		return 0, ErrNotInitialized
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	return c.inner.Incr(ctx, key).Result()
}

// GetCount fetches the counter at key. A missing key reports ok=false with a
// nil error so callers can tell "no record yet" from "store unreachable".
func (c *Client) GetCount(ctx context.Context, key string) (int64, bool, error) {
	if c == nil || c.inner == nil {
		return 0, false, ErrNotInitialized
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	val, err := c.inner.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// Expire sets the TTL for key.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if c == nil || c.inner == nil {
		return ErrNotInitialized
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	return c.inner.Expire(ctx, key, ttl).Err()
}

// Del removes provided keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c == nil || c.inner == nil {
		return ErrNotInitialized
	}
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	return c.inner.Del(ctx, keys...).Err()
}

// Close closes client.
func (c *Client) Close() error {
	if c == nil || c.inner == nil {
		return nil
	}
	return c.inner.Close()
}

// Package rd provides a thin redis client behind the store KV seam
package rd

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures redis connectivity
type Config struct {
	Addr     string
	Password string
	DB       int

	DialTimeout time.Duration
}

// Client wraps go-redis with the minimal surface the store needs
type Client struct {
	r *redis.Client
}

// Open dials redis and verifies connectivity before returning
func Open(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	r := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return &Client{r: r}, nil
}

// New wraps an existing go-redis client, used by tests with miniredis
func New(r *redis.Client) *Client { return &Client{r: r} }

// Get returns the value and whether the key exists
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.r.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set stores value under key; ttl <= 0 means no expiry
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.r.Set(ctx, key, value, ttl).Err()
}

// Delete removes key; deleting a missing key is not an error
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.r.Del(ctx, key).Err()
}

// TTL reports the remaining lifetime of key
// redis returns -1 for no expiry and -2 for missing, both pass through
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.r.TTL(ctx, key).Result()
}

// Ping reports readiness
func (c *Client) Ping(ctx context.Context) error { return c.r.Ping(ctx).Err() }

// Close releases the underlying connection pool
func (c *Client) Close() error { return c.r.Close() }

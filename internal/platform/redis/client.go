// Package redis wraps go-redis client construction with connection checking.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client with health checking capabilities.
type Client struct {
	*redis.Client
}

// New creates a new Redis client for the given address. Returns nil if the
// address is empty (Redis not configured); callers then use memory caches.
func New(addr string) (*Client, error) {
	if addr == "" {
		return nil, nil
	}

	opts := &redis.Options{Addr: addr}
	if parsed, err := redis.ParseURL(addr); err == nil {
		// Accept full redis:// URLs as well as bare host:port.
		opts = parsed
	}

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.Client.Close()
}

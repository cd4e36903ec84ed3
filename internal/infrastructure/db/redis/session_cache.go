package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "console:session:"

// SessionCache stores one encoded operator session under
// console:session:<key>. It satisfies session.Cache.
type SessionCache struct {
	client *redis.Client
	key    string
}

// NewSessionCache creates a SessionCache wrapping the given Redis client.
// An empty key falls back to "default".
func NewSessionCache(client *redis.Client, key string) *SessionCache {
	if key == "" {
		key = "default"
	}
	return &SessionCache{client: client, key: sessionPrefix + key}
}

// Get returns the stored session, or nil when none is cached.
func (c *SessionCache) Get(ctx context.Context) ([]byte, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	return raw, nil
}

// Set stores value for ttl.
func (c *SessionCache) Set(ctx context.Context, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key, value, ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (c *SessionCache) Delete(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

// Key returns the Redis key the session is stored under.
func (c *SessionCache) Key() string { return c.key }

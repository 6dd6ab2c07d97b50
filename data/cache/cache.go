// Package cache provides a generic redis-backed read cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultExpiry = 5 * time.Minute

// ErrMiss reports a cache miss.
var ErrMiss = errors.New("cache: miss")

// Cache is a typed key-value cache over a shared redis client. A nil client
// turns every operation into a no-op miss, so callers need no conditionals.
type Cache[T any] struct {
	rc  *redis.Client
	key string
}

// NewCache creates a new Cache instance namespaced under key.
func NewCache[T any](rc *redis.Client, key string) *Cache[T] {
	return &Cache[T]{rc: rc, key: key}
}

// Key defines the cache key for a field.
func (c *Cache[T]) Key(field string) string {
	if c.key != "" {
		return fmt.Sprintf("%s:%s", c.key, field)
	}
	return field
}

// Get retrieves a single item from cache.
func (c *Cache[T]) Get(ctx context.Context, field string) (*T, error) {
	if c.rc == nil {
		return nil, ErrMiss
	}

	result, err := c.rc.Get(ctx, c.Key(field)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}

	var value T
	if err := json.Unmarshal([]byte(result), &value); err != nil {
		return nil, fmt.Errorf("cache: failed to unmarshal value: %w", err)
	}
	return &value, nil
}

// Set stores a single item in cache.
func (c *Cache[T]) Set(ctx context.Context, field string, value *T, expiry ...time.Duration) error {
	if c.rc == nil || value == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: failed to marshal value: %w", err)
	}

	exp := defaultExpiry
	if len(expiry) > 0 {
		exp = expiry[0]
	}
	return c.rc.Set(ctx, c.Key(field), data, exp).Err()
}

// Delete removes a single item from cache.
func (c *Cache[T]) Delete(ctx context.Context, field string) error {
	if c.rc == nil {
		return nil
	}
	return c.rc.Del(ctx, c.Key(field)).Err()
}

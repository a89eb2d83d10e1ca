// Package cache is an optional redis read cache for tracking lookups. The
// customer surface is overwhelmingly fetch-by-code traffic for the same few
// codes; a short TTL keeps it off the remote store without inventing a cache
// invalidation protocol (writes simply evict).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"parcelTrackingManagement/models"
)

// OrderCache caches orders by normalized tracking code. A nil *OrderCache is
// valid and behaves as a permanent miss, so callers never branch on whether
// redis is configured.
type OrderCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to redis at redisURL.
func New(redisURL string, ttl time.Duration) (*OrderCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &OrderCache{rdb: rdb, ttl: ttl}, nil
}

func key(code string) string {
	return "order:" + models.NormalizeCode(code)
}

// Get returns the cached order for code, or false on miss or any redis error.
func (c *OrderCache) Get(ctx context.Context, code string) (*models.Order, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, key(code)).Result()
	if err != nil {
		return nil, false
	}
	var o models.Order
	if err := json.Unmarshal([]byte(val), &o); err != nil {
		return nil, false
	}
	return &o, true
}

// Put stores an order under its code for the configured TTL. Best effort.
func (c *OrderCache) Put(ctx context.Context, o *models.Order) {
	if c == nil || o == nil {
		return
	}
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key(o.OrderCode), b, c.ttl).Err()
}

// Invalidate evicts the cached order for code. Called after upsert/delete.
func (c *OrderCache) Invalidate(ctx context.Context, code string) {
	if c == nil {
		return
	}
	_ = c.rdb.Del(ctx, key(code)).Err()
}

// Close releases the redis connection.
func (c *OrderCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

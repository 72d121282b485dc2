// Package cache fronts the embedded task store with an in-process layer and
// an optional redis layer.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

// Cache is the read-through surface the task services use.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Health(ctx context.Context) error
	Stats() map[string]interface{}
	Close() error
}

// MultiLevelCache checks memory first, then redis when configured. Redis
// errors degrade to a miss; the memory layer keeps working.
type MultiLevelCache struct {
	l1      *MemoryCache
	l2      *RedisCache
	l1TTL   time.Duration
	metrics *Metrics
}

func NewMultiLevelCache(redisCache *RedisCache, l1TTL time.Duration) *MultiLevelCache {
	if l1TTL <= 0 {
		l1TTL = 5 * time.Minute
	}
	return &MultiLevelCache{
		l1:      NewMemoryCache(time.Minute),
		l2:      redisCache,
		l1TTL:   l1TTL,
		metrics: NewMetrics(),
	}
}

func (c *MultiLevelCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	c.l1.Set(key, data, c.memoryTTL(ttl))
	c.metrics.recordSet()

	if c.l2 != nil {
		if err := c.l2.Set(ctx, key, data, ttl); err != nil {
			c.metrics.recordError()
			return err
		}
	}
	return nil
}

func (c *MultiLevelCache) Get(ctx context.Context, key string, dest interface{}) error {
	if data, ok := c.l1.Get(key); ok {
		c.metrics.recordL1Hit()
		return json.Unmarshal(data, dest)
	}

	if c.l2 == nil {
		c.metrics.recordMiss()
		return ErrCacheMiss
	}

	data, err := c.l2.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.metrics.recordError()
			log.Printf("cache: redis get %s failed: %v", key, err)
		}
		c.metrics.recordMiss()
		return ErrCacheMiss
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.metrics.recordError()
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	c.metrics.recordL2Hit()
	c.l1.Set(key, data, c.l1TTL)
	return nil
}

func (c *MultiLevelCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.l1.Delete(key)
	}
	c.metrics.recordInvalidation()

	if c.l2 != nil {
		return c.l2.Delete(ctx, keys...)
	}
	return nil
}

func (c *MultiLevelCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.l1.DeletePrefix(prefix)
	c.metrics.recordInvalidation()

	if c.l2 != nil {
		return c.l2.DeletePrefix(ctx, prefix)
	}
	return nil
}

func (c *MultiLevelCache) Health(ctx context.Context) error {
	if c.l2 != nil {
		return c.l2.Health(ctx)
	}
	return nil
}

func (c *MultiLevelCache) Metrics() Metrics {
	return c.metrics.Snapshot()
}

func (c *MultiLevelCache) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"l1_items": c.l1.Len(),
		"hit_rate": c.metrics.HitRate(),
		"metrics":  c.metrics.Snapshot(),
	}
	if c.l2 != nil {
		stats["l2"] = c.l2.Stats()
	}
	return stats
}

func (c *MultiLevelCache) Close() error {
	c.l1.Close()
	if c.l2 != nil {
		return c.l2.Close()
	}
	return nil
}

func (c *MultiLevelCache) memoryTTL(ttl time.Duration) time.Duration {
	if ttl > 0 && ttl < c.l1TTL {
		return ttl
	}
	return c.l1TTL
}

package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stockscan/stockscan-backend/pkg/db/models"
	"github.com/stockscan/stockscan-backend/pkg/logger"
	"github.com/stockscan/stockscan-backend/pkg/redis"
)

type snapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(parts ...string) string
}

// Cache keeps a full-catalog snapshot in redis. A nil *Cache is a
// valid no-op so the service works without a cache endpoint.
type Cache struct {
	store snapshotStore
	ttl   time.Duration
	log   *logger.Logger
}

// NewCache wraps the redis client. Returns nil when no client is configured.
func NewCache(client *redis.Client, ttl time.Duration, logg *logger.Logger) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{store: client, ttl: ttl, log: logg}
}

func (c *Cache) key() string {
	return c.store.CacheKey("catalog", "all")
}

// Snapshot returns the cached catalog and whether it was present.
// Cache failures never surface to the caller; reads fall through to the DB.
func (c *Cache) Snapshot(ctx context.Context) ([]models.Product, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.store.Get(ctx, c.key())
	if err != nil {
		if err != redis.Nil && c.log != nil {
			c.log.Warn(ctx, "catalog cache read failed: "+err.Error())
		}
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		if c.log != nil {
			c.log.Warn(ctx, "catalog cache entry corrupt, ignoring")
		}
		return nil, false
	}
	return products, true
}

// Store replaces the cached snapshot.
func (c *Cache) Store(ctx context.Context, products []models.Product) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, c.key(), string(raw), c.ttl); err != nil && c.log != nil {
		c.log.Warn(ctx, "catalog cache write failed: "+err.Error())
	}
}

// Invalidate drops the snapshot after any catalog mutation.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.store.Del(ctx, c.key()); err != nil && c.log != nil {
		c.log.Warn(ctx, "catalog cache invalidation failed: "+err.Error())
	}
}

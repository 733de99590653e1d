package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbeecher/beerworks/internal/logger"
)

func NewClient(addr string) *redis.Client {
	r := redis.NewClient(&redis.Options{Addr: addr})
	_ = r.WithTimeout(2 * time.Second)
	return r
}

// Coordinator keeps two cache classes in sync with the store: a read-through
// entity cache keyed by id, and a collection cache keyed by the full
// filter+page signature of a list query. The store stays the single source
// of truth; every method degrades to a no-op on cache failure so the cache
// is never a correctness dependency.
type Coordinator struct {
	rdb *redis.Client
	log *logger.Logger
}

func NewCoordinator(rdb *redis.Client, log *logger.Logger) *Coordinator {
	return &Coordinator{rdb: rdb, log: log}
}

// GetEntity reports true and fills out on a hit. Misses are not cached.
func (c *Coordinator) GetEntity(ctx context.Context, kind, id string, out any) bool {
	return c.get(ctx, fmt.Sprintf(keyEntity, kind, id), out)
}

func (c *Coordinator) PutEntity(ctx context.Context, kind, id string, v any) {
	c.put(ctx, fmt.Sprintf(keyEntity, kind, id), v)
}

func (c *Coordinator) GetCollection(ctx context.Context, kind, sig string, out any) bool {
	return c.get(ctx, fmt.Sprintf(keyCollection, kind, sig), out)
}

// PutCollection stores a list result and registers its key in the per-kind
// index so InvalidateCollection can find it later.
func (c *Coordinator) PutCollection(ctx context.Context, kind, sig string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache marshal failed", "kind", kind, "err", err)
		return
	}
	key := fmt.Sprintf(keyCollection, kind, sig)
	idx := fmt.Sprintf(keyCollectionIndex, kind)
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, key, b, 0)
	pipe.SAdd(ctx, idx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("cache put failed", "key", key, "err", err)
	}
}

func (c *Coordinator) InvalidateEntity(ctx context.Context, kind, id string) {
	key := fmt.Sprintf(keyEntity, kind, id)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.log.Warn("cache invalidate failed", "key", key, "err", err)
	}
}

// InvalidateCollection drops every cached list result for a kind. The
// collection cache is never patched selectively: a stale filtered list is
// never acceptable, so the whole thing goes.
func (c *Coordinator) InvalidateCollection(ctx context.Context, kind string) {
	idx := fmt.Sprintf(keyCollectionIndex, kind)
	keys, err := c.rdb.SMembers(ctx, idx).Result()
	if err != nil {
		c.log.Warn("cache index read failed", "kind", kind, "err", err)
		return
	}
	keys = append(keys, idx)
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache clear failed", "kind", kind, "err", err)
	}
}

func (c *Coordinator) get(ctx context.Context, key string, out any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache read failed", "key", key, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		c.log.Warn("cache entry corrupt, dropping", "key", key, "err", err)
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *Coordinator) put(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache marshal failed", "key", key, "err", err)
		return
	}
	if err := c.rdb.Set(ctx, key, b, 0).Err(); err != nil {
		c.log.Warn("cache put failed", "key", key, "err", err)
	}
}

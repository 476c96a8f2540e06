// Package cache is a best-effort Redis layer in front of the store. A cache
// failure is logged and then treated as a miss or a skipped write; it never
// fails a request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/csandman/audnexus/internal/entity"
)

// Cache holds the shared Redis client. A nil client disables caching.
type Cache struct {
	rdb redis.Cmdable
	ttl time.Duration
	log zerolog.Logger
}

// New returns a cache on rdb. ttl of zero stores keys without expiry.
func New(rdb redis.Cmdable, ttl time.Duration, log zerolog.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, log: log.With().Str("component", "cache").Logger()}
}

// Open connects to Redis and verifies the server answers.
func Open(ctx context.Context, opts *redis.Options) (*redis.Client, error) {
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Key is the cache key for an entity: "<kind>-<asin>".
func Key(kind entity.Kind, asin string) string {
	return kind.String() + "-" + asin
}

func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

func (c *Cache) get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	}
	return raw, true
}

func (c *Cache) set(ctx context.Context, key string, raw []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c *Cache) del(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache delete failed")
	}
}

// Ping reports Redis reachability. A disabled cache is always healthy.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Bucket is the typed view of the cache for one entity kind.
type Bucket[T entity.Profile] struct {
	c    *Cache
	kind entity.Kind
}

func For[T entity.Profile](c *Cache, kind entity.Kind) *Bucket[T] {
	return &Bucket[T]{c: c, kind: kind}
}

// Get returns the cached view for asin. The region lives in the value, so an
// entry written for a different region is a miss.
func (b *Bucket[T]) Get(ctx context.Context, asin, region string) (T, bool) {
	var zero T
	key := Key(b.kind, asin)
	raw, ok := b.c.get(ctx, key)
	if !ok {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		b.c.log.Warn().Err(err).Str("key", key).Msg("cache entry undecodable")
		return zero, false
	}
	if _, cached := v.Identity(); cached != "" && cached != region {
		return zero, false
	}
	return v, true
}

// Set writes data under its own asin.
func (b *Bucket[T]) Set(ctx context.Context, data T) {
	asin, _ := data.Identity()
	key := Key(b.kind, asin)
	raw, err := json.Marshal(data)
	if err != nil {
		b.c.log.Warn().Err(err).Str("key", key).Msg("cache entry unencodable")
		return
	}
	b.c.set(ctx, key, raw)
}

func (b *Bucket[T]) Delete(ctx context.Context, asin string) {
	b.c.del(ctx, Key(b.kind, asin))
}

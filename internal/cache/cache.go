package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/sumit2409/Zenflow/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyLogs = "logs:"
	keyMeta = "meta:"
)

// Cache keeps per-user log listings and meta blobs in Redis, invalidated on
// every write for that user. Cached reads may lag a concurrent writer by at
// most the TTL; the store itself stays the source of truth.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a new Cache.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetLogs returns the cached log listing or nil if miss.
func (c *Cache) GetLogs(ctx context.Context, username string) ([]dom.LogEntry, error) {
	b, err := c.rdb.Get(ctx, keyLogs+username).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []dom.LogEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []dom.LogEntry{}
	}
	return entries, nil
}

// SetLogs stores the log listing in cache.
func (c *Cache) SetLogs(ctx context.Context, username string, entries []dom.LogEntry) error {
	if entries == nil {
		entries = []dom.LogEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyLogs+username, b, c.ttl).Err()
}

// InvalidateLogs removes the user's cached log listing (cache invalidation on write).
func (c *Cache) InvalidateLogs(ctx context.Context, username string) error {
	return c.rdb.Del(ctx, keyLogs+username).Err()
}

// GetMeta returns the cached meta blob or nil if miss.
func (c *Cache) GetMeta(ctx context.Context, username string) (map[string]any, error) {
	b, err := c.rdb.Get(ctx, keyMeta+username).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta map[string]any
	if err := json.Unmarshal(b, &meta); err != nil {
		return nil, err
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, nil
}

// SetMeta stores the meta blob in cache.
func (c *Cache) SetMeta(ctx context.Context, username string, meta map[string]any) error {
	if meta == nil {
		meta = map[string]any{}
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyMeta+username, b, c.ttl).Err()
}

// InvalidateMeta removes the user's cached meta blob.
func (c *Cache) InvalidateMeta(ctx context.Context, username string) error {
	return c.rdb.Del(ctx, keyMeta+username).Err()
}

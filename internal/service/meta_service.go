package service

import (
	"context"

	"github.com/sumit2409/Zenflow/internal/cache"
	"github.com/sumit2409/Zenflow/internal/storage"

	"golang.org/x/sync/singleflight"
)

// MetaService handles the per-user opaque metadata blob. The store replaces
// the whole blob on write; partial updates are the caller's read-modify-write
// problem, and concurrent disjoint writes clobber each other by contract.
type MetaService struct {
	store storage.Store
	cache *cache.Cache // optional, nil when Redis is not configured
	sf    singleflight.Group
}

// NewMetaService creates a MetaService. If c is nil, caching is disabled.
func NewMetaService(store storage.Store, c *cache.Cache) *MetaService {
	return &MetaService{store: store, cache: c}
}

// Get returns the stored blob, or an empty map if none exists. Concurrent
// cache misses for the same user collapse into one store read.
func (s *MetaService) Get(ctx context.Context, username string) (map[string]any, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("meta:"+username, func() (interface{}, error) {
			if meta, err := s.cache.GetMeta(ctx, username); err == nil && meta != nil {
				return meta, nil
			}
			meta, err := s.store.GetMeta(ctx, username)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetMeta(ctx, username, meta)
			return meta, nil
		})
		if err != nil {
			return nil, err
		}
		return v.(map[string]any), nil
	}
	return s.store.GetMeta(ctx, username)
}

// Set wholesale-replaces the stored blob for the user.
func (s *MetaService) Set(ctx context.Context, username string, meta map[string]any) error {
	if meta == nil {
		meta = map[string]any{}
	}
	if err := s.store.SetMeta(ctx, username, meta); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateMeta(ctx, username)
	}
	return nil
}

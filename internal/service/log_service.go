package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sumit2409/Zenflow/internal/cache"
	dom "github.com/sumit2409/Zenflow/internal/domain"
	"github.com/sumit2409/Zenflow/internal/storage"

	"golang.org/x/sync/singleflight"
)

var ErrMissingLogFields = errors.New("date and type required")

// LogService handles per-user activity log reads and upserts.
type LogService struct {
	store storage.Store
	cache *cache.Cache // optional, nil when Redis is not configured
	sf    singleflight.Group
}

// NewLogService creates a LogService. If c is nil, caching is disabled.
func NewLogService(store storage.Store, c *cache.Cache) *LogService {
	return &LogService{store: store, cache: c}
}

// List returns all log entries for the user, unordered. Concurrent cache
// misses for the same user collapse into one store read.
func (s *LogService) List(ctx context.Context, username string) ([]dom.LogEntry, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("logs:"+username, func() (interface{}, error) {
			if entries, err := s.cache.GetLogs(ctx, username); err == nil && entries != nil {
				return entries, nil
			}
			entries, err := s.store.ListLogs(ctx, username)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetLogs(ctx, username, entries)
			return entries, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.LogEntry), nil
	}
	return s.store.ListLogs(ctx, username)
}

// Upsert writes or overwrites the (username, date, type) entry. Identical
// calls are idempotent; the last durably applied write wins.
func (s *LogService) Upsert(ctx context.Context, username, date, typ string, value float64) error {
	date = strings.TrimSpace(date)
	typ = strings.TrimSpace(typ)
	if date == "" || typ == "" {
		return ErrMissingLogFields
	}
	entry := dom.LogEntry{Username: username, Date: date, Type: typ, Value: value}
	if err := s.store.UpsertLog(ctx, entry); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateLogs(ctx, username)
	}
	return nil
}

package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sumit2409/Zenflow/internal/config"
	"github.com/sumit2409/Zenflow/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg    config.Config
	store  storage.Store
	redis  *redis.Client
	router *gin.Engine
}

func New(cfg config.Config) (*App, error) {
	a := &App{cfg: cfg}

	// Backend is picked exactly once here and never re-evaluated.
	store, err := storage.Open(context.Background(), storage.Options{
		MongoURI:       cfg.Mongo.URI,
		MongoDB:        cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout.Duration(),
		FilePath:       cfg.File.Path,
	})
	if err != nil {
		return nil, err
	}
	a.store = store

	if cfg.Redis.CacheEnabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			// The cache is an optimization; the server runs without it.
			log.Printf("redis unavailable, cache disabled: %v", err)
		} else {
			a.redis = rdb
		}
	}

	a.router = newRouter(cfg, a.store, a.redis)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.store != nil {
		_ = a.store.Close(ctx)
	}
	return nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

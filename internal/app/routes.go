package app

import (
	"path/filepath"
	"time"

	"github.com/sumit2409/Zenflow/internal/auth"
	"github.com/sumit2409/Zenflow/internal/cache"
	"github.com/sumit2409/Zenflow/internal/config"
	"github.com/sumit2409/Zenflow/internal/handlers"
	"github.com/sumit2409/Zenflow/internal/service"
	"github.com/sumit2409/Zenflow/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newRouter(cfg config.Config, store storage.Store, rdb *redis.Client) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, store, rdb)
	return r
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, store storage.Store, rdb *redis.Client) {
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))

	var c *cache.Cache
	if rdb != nil {
		c = cache.New(rdb, cfg.Redis.DefaultTTL.Duration())
	}

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL.Duration())
	userSvc := service.NewUserService(store, tokens)
	authHandler := handlers.NewAuthHandler(userSvc)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	protected := r.Group("", auth.RequireToken(tokens))
	protected.GET("/me", authHandler.Me)

	logSvc := service.NewLogService(store, c)
	logHandler := handlers.NewLogHandler(logSvc)
	protected.GET("/logs", logHandler.List)
	protected.POST("/logs", logHandler.Upsert)

	metaSvc := service.NewMetaService(store, c)
	metaHandler := handlers.NewMetaHandler(metaSvc)
	protected.GET("/meta", metaHandler.Get)
	protected.POST("/meta", metaHandler.Set)

	if cfg.App.StaticDir != "" {
		registerStatic(r, cfg.App.StaticDir)
	}
}

// registerStatic serves the built frontend, answering unknown routes with
// index.html so client-side routing works.
func registerStatic(r *gin.Engine, dir string) {
	r.Use(static.Serve("/", static.LocalFile(dir, false)))
	r.NoRoute(func(c *gin.Context) {
		c.File(filepath.Join(dir, "index.html"))
	})
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

package main

import (
	"context"
	"time"

	v1 "github.com/codehub-server/api/v1"
	"github.com/codehub-server/config"
	"github.com/codehub-server/database"
	"github.com/codehub-server/lib/cache"
	"github.com/codehub-server/logutils"
	"github.com/codehub-server/metrics"
	"github.com/codehub-server/routes"
	"github.com/codehub-server/services"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		logutils.Log.Fatalf("Failed to load configuration: %v", err)
	}
	logutils.SetLevel(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		logutils.Log.Fatal("JWT_SECRET must be set")
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	if err := database.Initialize(cfg.DBDriver, cfg.DatabaseURL); err != nil {
		logutils.Log.Fatalf("Failed to initialize database: %v", err)
	}

	metrics.Register()
	renders := newRenderCache(cfg)

	snapshots := services.NewSnapshotService(database.DB)
	svc := v1.Services{
		Auth:        services.NewAuthService(database.DB, cfg.JWTSecret),
		Users:       services.NewUserService(database.DB),
		Projects:    services.NewProjectService(database.DB, renders),
		Files:       services.NewFileService(database.DB),
		Snapshots:   snapshots,
		Deployments: services.NewDeploymentService(database.DB, snapshots, renders, cfg.PublicBaseURL),
	}

	router := routes.SetupRouter(cfg, svc)

	logutils.Log.WithFields(logutils.Fields{
		"port":     cfg.Port,
		"driver":   cfg.DBDriver,
		"base_url": cfg.PublicBaseURL,
	}).Info("CodeHub API starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		logutils.Log.Fatalf("Failed to start server: %v", err)
	}
}

// newRenderCache uses Redis when REDIS_ADDR is set and reachable, and an in-process cache
// otherwise
func newRenderCache(cfg *config.Config) cache.RenderCache {
	if cfg.Redis.Addr == "" {
		logutils.Log.Info("Using in-memory render cache")
		return cache.NewMemoryCache(cfg.RenderCacheTTL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.RenderCacheTTL)
	if err != nil {
		logutils.Log.WithError(err).Warn("Redis unavailable, falling back to in-memory render cache")
		return cache.NewMemoryCache(cfg.RenderCacheTTL)
	}
	logutils.Log.WithField("addr", cfg.Redis.Addr).Info("Using Redis render cache")
	return redisCache
}

package routes

import (
	"time"

	v1 "github.com/codehub-server/api/v1"
	"github.com/codehub-server/config"
	"github.com/codehub-server/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP engine: the JSON API under /api/v1, published deployments
// under /deploy, plus health and metrics endpoints
func SetupRouter(cfg *config.Config, svc v1.Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), metrics.GinMiddleware())

	// CORS configuration
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	router.Use(cors.New(corsConfig))

	// Public routes
	router.GET("/health", v1.HealthCheck)
	router.GET("/metrics", metrics.Handler())

	deployments := v1.NewDeploymentController(svc.Deployments)
	router.GET("/deploy/:slug", deployments.ServeDeployment)

	v1.RegisterRoutes(router.Group("/api/v1"), svc)

	return router
}

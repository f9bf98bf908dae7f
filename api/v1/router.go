package v1

import (
	"github.com/codehub-server/middleware"
	"github.com/codehub-server/services"
	"github.com/gin-gonic/gin"
)

// Services bundles the service layer the API is built on
type Services struct {
	Auth        *services.AuthService
	Users       *services.UserService
	Projects    *services.ProjectService
	Files       *services.FileService
	Snapshots   *services.SnapshotService
	Deployments *services.DeploymentService
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, svc Services) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	authMiddleware := middleware.AuthMiddleware(svc.Auth)

	// Auth endpoints
	authController := NewAuthController(svc.Auth, svc.Users)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authController.Register)
		authGroup.POST("/login", authController.Login)
		authGroup.POST("/logout", Logout)
		authGroup.GET("/me", authMiddleware, authController.GetCurrentUser)
	}

	projectController := NewProjectController(svc.Projects)

	// Public project listing
	router.GET("/explore", projectController.ListPublicProjects)

	// Everything else is protected by AuthMiddleware
	authRouter := router.Group("")
	authRouter.Use(authMiddleware)

	projectController.RegisterRoutes(authRouter)
	NewFileController(svc.Files).RegisterRoutes(authRouter)
	NewCommitController(svc.Snapshots).RegisterRoutes(authRouter)
	NewDeploymentController(svc.Deployments).RegisterRoutes(authRouter)
	NewUserController(svc.Users).RegisterRoutes(authRouter)
}

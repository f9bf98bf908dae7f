package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "github.com/codehub-server/api/v1"
	"github.com/codehub-server/config"
	"github.com/codehub-server/database"
	"github.com/codehub-server/lib/cache"
	"github.com/codehub-server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	renders := cache.NewMemoryCache(0)
	snapshots := services.NewSnapshotService(db)
	cfg := config.Default()
	router := SetupRouter(cfg, v1.Services{
		Auth:        services.NewAuthService(db, "secret"),
		Users:       services.NewUserService(db),
		Projects:    services.NewProjectService(db, renders),
		Files:       services.NewFileService(db),
		Snapshots:   snapshots,
		Deployments: services.NewDeploymentService(db, snapshots, renders, cfg.PublicBaseURL),
	})

	tests := []struct {
		path string
		code int
	}{
		{"/health", http.StatusOK},
		{"/api/v1/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/v1/explore", http.StatusOK},
		{"/api/v1/projects", http.StatusUnauthorized},
		{"/deploy/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.code, w.Code, tt.path)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/projects", nil)
	req.Header.Set("Origin", "https://editor.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

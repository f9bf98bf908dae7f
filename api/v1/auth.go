package v1

import (
	"net/http"

	"github.com/codehub-server/dto"
	"github.com/codehub-server/middleware"
	"github.com/codehub-server/services"
	"github.com/gin-gonic/gin"
)

// AuthController handles registration and login
type AuthController struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewAuthController creates a new auth controller
func NewAuthController(authService *services.AuthService, userService *services.UserService) *AuthController {
	return &AuthController{authService: authService, userService: userService}
}

// Register handles user registration
func (ac *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := ac.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "User registered successfully",
		"data":    user,
	})
}

// Login handles user authentication
func (ac *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	authResponse, err := ac.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// Set token as HttpOnly cookie; the body carries it too for Bearer clients
	c.SetCookie(
		middleware.AccessTokenCookie,
		authResponse.Token,
		int(services.TokenTTL.Seconds()),
		"/",
		"",
		true,
		true,
	)

	respondData(c, http.StatusOK, authResponse)
}

// GetCurrentUser returns the currently authenticated user's profile
func (ac *AuthController) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := ac.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, profile)
}

package v1

import (
	"net/http"

	"github.com/codehub-server/dto"
	"github.com/codehub-server/services"
	"github.com/gin-gonic/gin"
)

// UserController serves the signed-in user's profile
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// RegisterRoutes registers profile routes
func (uc *UserController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/user", uc.GetProfile)
	router.PUT("/user", uc.UpdateProfile)
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags user
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Router /user [get]
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := uc.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update the current user's name and email
// @Tags user
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Profile"
// @Success 200 {object} dto.ProfileResponse
// @Router /user [put]
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := uc.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, profile)
}

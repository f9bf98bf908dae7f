package dto

import (
	"github.com/codehub-server/models"
)

// UpdateProfileRequest represents the editable profile fields
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

// ProfileResponse is the current user together with their live project count
type ProfileResponse struct {
	models.User
	ProjectCount int64 `json:"projectCount"`
}

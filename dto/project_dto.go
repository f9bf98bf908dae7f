package dto

import (
	"time"
)

// CreateProjectRequest represents the request payload for creating a new project
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	IsPublic    bool    `json:"isPublic"`
}

// UpdateProjectRequest represents a partial update of a project; nil fields are left alone
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"isPublic"`
}

// VisibilityRequest toggles whether a project is public
type VisibilityRequest struct {
	IsPublic *bool `json:"isPublic" binding:"required"`
}

// OwnerSummary is the public view of a project owner
type OwnerSummary struct {
	ID        string  `json:"id"`
	Username  *string `json:"username"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// PublicProjectResponse is one entry of the explore listing
type PublicProjectResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	DeployedURL *string       `json:"deployedUrl"`
	Owner       *OwnerSummary `json:"owner,omitempty"`
	FileCount   int64         `json:"fileCount"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

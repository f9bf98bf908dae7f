package dto

import (
	"time"

	"github.com/codehub-server/models"
)

// CreateDeploymentRequest publishes a commit; an empty CommitID snapshots the live files first
type CreateDeploymentRequest struct {
	CommitID string `json:"commitId"`
}

// DeploymentResponse is returned after a successful deploy
type DeploymentResponse struct {
	ID        string                  `json:"id"`
	URL       string                  `json:"url"`
	Slug      string                  `json:"slug"`
	CommitID  string                  `json:"commitId"`
	Status    models.DeploymentStatus `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
}

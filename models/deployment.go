package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeploymentStatus is the lifecycle state of a deployment.
type DeploymentStatus string

const (
	DeploymentStatusPending  DeploymentStatus = "pending"
	DeploymentStatusDeployed DeploymentStatus = "deployed"
	DeploymentStatusFailed   DeploymentStatus = "failed"
)

// Deployment permanently binds a public slug/URL to one commit.
type Deployment struct {
	ID        string           `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID string           `json:"projectId" gorm:"type:uuid;not null;index"`
	CommitID  string           `json:"commitId" gorm:"type:uuid;not null;index"`
	Slug      string           `json:"slug" gorm:"not null;uniqueIndex"`
	URL       string           `json:"url" gorm:"not null;uniqueIndex"`
	Status    DeploymentStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time        `json:"createdAt"`

	// Relations
	Commit *Commit `json:"commit,omitempty" gorm:"foreignKey:CommitID"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (d *Deployment) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxProjectsPerUser is the number of live projects one owner may hold.
const MaxProjectsPerUser = 3

// Project is a static site owned by one user.
type Project struct {
	ID           string         `json:"id" gorm:"primaryKey;type:uuid"`
	Name         string         `json:"name" gorm:"not null"`
	Description  *string        `json:"description" gorm:"type:text"`
	UserID       string         `json:"userId" gorm:"type:uuid;not null;index"`
	IsPublic     bool           `json:"isPublic" gorm:"not null;default:false;index"`
	DeployedURL  *string        `json:"deployedUrl"`
	LastCommitID *string        `json:"lastCommitId" gorm:"type:uuid"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User  *User         `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Files []ProjectFile `json:"files,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

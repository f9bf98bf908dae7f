package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxCommitMessageLength bounds the trimmed commit message, in characters.
const MaxCommitMessageLength = 200

// Commit is an immutable full snapshot of a project's files.
type Commit struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID      string    `json:"projectId" gorm:"type:uuid;not null;index"`
	AuthorID       string    `json:"authorId" gorm:"type:uuid;not null"`
	Message        string    `json:"message" gorm:"type:text;not null"`
	ParentCommitID *string   `json:"parentCommitId" gorm:"type:uuid"`
	CreatedAt      time.Time `json:"createdAt" gorm:"index"`

	// Relations
	Files []CommitFile `json:"files,omitempty" gorm:"foreignKey:CommitID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (c *Commit) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommitFile is the copy of one ProjectFile taken when a commit was created.
// SourceFileID points at the file it was copied from; that file may no longer exist.
type CommitFile struct {
	ID           string   `json:"id" gorm:"primaryKey;type:uuid"`
	CommitID     string   `json:"commitId" gorm:"type:uuid;not null;index"`
	SourceFileID *string  `json:"sourceFileId" gorm:"type:uuid"`
	FileName     string   `json:"fileName" gorm:"not null"`
	FilePath     string   `json:"filePath" gorm:"not null"`
	FileContent  string   `json:"fileContent" gorm:"type:text;not null"`
	FileType     FileType `json:"fileType" gorm:"type:varchar(10);not null"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (f *CommitFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

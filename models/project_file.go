package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileType is the kind of source file a project may hold.
type FileType string

const (
	FileTypeHTML FileType = "html"
	FileTypeCSS  FileType = "css"
	FileTypeJS   FileType = "js"
)

// IndexFileName is the entry page every project must keep.
const IndexFileName = "index.html"

// ProjectFile is one file of a project's live, editable file set.
type ProjectFile struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID string    `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_project_files_project_path"`
	Name      string    `json:"name" gorm:"not null"`
	Path      string    `json:"path" gorm:"not null;uniqueIndex:idx_project_files_project_path"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	FileType  FileType  `json:"fileType" gorm:"type:varchar(10);not null"`
	Size      int64     `json:"size" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (f *ProjectFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// SetContent replaces the content and keeps Size equal to its length in bytes.
func (f *ProjectFile) SetContent(content string) {
	f.Content = content
	f.Size = int64(len(content))
}

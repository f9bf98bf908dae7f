package repositories

import (
	"context"
	"time"

	"github.com/codehub-server/models"
	"gorm.io/gorm"
)

// FileRepository handles database operations for live project files
type FileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file repository instance
func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *FileRepository) WithTx(tx *gorm.DB) *FileRepository {
	return &FileRepository{db: tx}
}

// FindByProjectID retrieves a project's files ordered by name
func (r *FileRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.ProjectFile, error) {
	var files []models.ProjectFile
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("name ASC").
		Find(&files)
	return files, result.Error
}

// FindByID retrieves one file of a project
func (r *FileRepository) FindByID(ctx context.Context, projectID, fileID string) (models.ProjectFile, error) {
	var file models.ProjectFile
	result := r.db.WithContext(ctx).First(&file, "id = ? AND project_id = ?", fileID, projectID)
	return file, result.Error
}

// ExistsByPath checks whether a path is already taken in the project
func (r *FileRepository) ExistsByPath(ctx context.Context, projectID, path string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ProjectFile{}).
		Where("project_id = ? AND path = ?", projectID, path).
		Count(&count)
	return count > 0, result.Error
}

// Create inserts a new file
func (r *FileRepository) Create(ctx context.Context, file models.ProjectFile) (models.ProjectFile, error) {
	result := r.db.WithContext(ctx).Create(&file)
	return file, result.Error
}

// CreateBatch inserts several files in one statement
func (r *FileRepository) CreateBatch(ctx context.Context, files []models.ProjectFile) ([]models.ProjectFile, error) {
	if len(files) == 0 {
		return files, nil
	}
	result := r.db.WithContext(ctx).Create(&files)
	return files, result.Error
}

// UpdateContent replaces a file's content and size
func (r *FileRepository) UpdateContent(ctx context.Context, fileID, content string, size int64) error {
	result := r.db.WithContext(ctx).Model(&models.ProjectFile{}).
		Where("id = ?", fileID).
		Updates(map[string]interface{}{
			"content":    content,
			"size":       size,
			"updated_at": time.Now(),
		})
	return result.Error
}

// Delete removes a single file
func (r *FileRepository) Delete(ctx context.Context, fileID string) error {
	result := r.db.WithContext(ctx).Delete(&models.ProjectFile{}, "id = ?", fileID)
	return result.Error
}

// DeleteByProjectID removes every file of a project and reports how many were removed
func (r *FileRepository) DeleteByProjectID(ctx context.Context, projectID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.ProjectFile{})
	return result.RowsAffected, result.Error
}

// CountByProjectID counts the files of a project
func (r *FileRepository) CountByProjectID(ctx context.Context, projectID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ProjectFile{}).Where("project_id = ?", projectID).Count(&count)
	return count, result.Error
}

// CountByProjectIDs counts files for several projects in one grouped query
func (r *FileRepository) CountByProjectIDs(ctx context.Context, projectIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(projectIDs))
	if len(projectIDs) == 0 {
		return counts, nil
	}

	type row struct {
		ProjectID string
		Count     int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.ProjectFile{}).
		Select("project_id, COUNT(*) AS count").
		Where("project_id IN ?", projectIDs).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		counts[rw.ProjectID] = rw.Count
	}
	return counts, nil
}

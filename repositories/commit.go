package repositories

import (
	"context"

	"github.com/codehub-server/models"
	"gorm.io/gorm"
)

// CommitSummary is a commit row together with the number of files it snapshotted
type CommitSummary struct {
	models.Commit
	FileCount int64 `json:"fileCount"`
}

// CommitRepository handles database operations for commits and their files
type CommitRepository struct {
	db *gorm.DB
}

// NewCommitRepository creates a new commit repository instance
func NewCommitRepository(db *gorm.DB) *CommitRepository {
	return &CommitRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *CommitRepository) WithTx(tx *gorm.DB) *CommitRepository {
	return &CommitRepository{db: tx}
}

// Create inserts a commit row (without files)
func (r *CommitRepository) Create(ctx context.Context, commit models.Commit) (models.Commit, error) {
	commit.Files = nil
	result := r.db.WithContext(ctx).Create(&commit)
	return commit, result.Error
}

// CreateFiles inserts the snapshot files of a commit
func (r *CommitRepository) CreateFiles(ctx context.Context, files []models.CommitFile) error {
	if len(files) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&files).Error
}

// FindByID retrieves a commit that belongs to the given project
func (r *CommitRepository) FindByID(ctx context.Context, projectID, commitID string) (models.Commit, error) {
	var commit models.Commit
	result := r.db.WithContext(ctx).First(&commit, "id = ? AND project_id = ?", commitID, projectID)
	return commit, result.Error
}

// WithFiles retrieves a commit of the project with its snapshot files ordered by name
func (r *CommitRepository) WithFiles(ctx context.Context, projectID, commitID string) (models.Commit, error) {
	var commit models.Commit
	result := r.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("file_name ASC") }).
		First(&commit, "id = ? AND project_id = ?", commitID, projectID)
	return commit, result.Error
}

// FindFilesByCommitID retrieves the snapshot files of a commit ordered by name
func (r *CommitRepository) FindFilesByCommitID(ctx context.Context, commitID string) ([]models.CommitFile, error) {
	var files []models.CommitFile
	result := r.db.WithContext(ctx).
		Where("commit_id = ?", commitID).
		Order("file_name ASC").
		Find(&files)
	return files, result.Error
}

// ListWithFileCount lists a project's commits newest first. File counts come from a
// correlated COUNT so no file content is read.
func (r *CommitRepository) ListWithFileCount(ctx context.Context, projectID string) ([]CommitSummary, error) {
	var commits []CommitSummary
	result := r.db.WithContext(ctx).Model(&models.Commit{}).
		Select("commits.*, (SELECT COUNT(*) FROM commit_files WHERE commit_files.commit_id = commits.id) AS file_count").
		Where("commits.project_id = ?", projectID).
		Order("commits.created_at DESC").
		Scan(&commits)
	return commits, result.Error
}

// DeleteByProjectID removes every commit of a project together with its files
func (r *CommitRepository) DeleteByProjectID(ctx context.Context, projectID string) error {
	db := r.db.WithContext(ctx)
	commitIDs := db.Model(&models.Commit{}).Select("id").Where("project_id = ?", projectID)
	if err := db.Where("commit_id IN (?)", commitIDs).Delete(&models.CommitFile{}).Error; err != nil {
		return err
	}
	return db.Where("project_id = ?", projectID).Delete(&models.Commit{}).Error
}

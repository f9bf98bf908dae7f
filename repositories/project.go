package repositories

import (
	"context"
	"time"

	"github.com/codehub-server/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ProjectRepository) WithTx(tx *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: tx}
}

// FindByID retrieves a live project by its ID
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (models.Project, error) {
	var project models.Project
	result := r.db.WithContext(ctx).First(&project, "id = ?", id)
	return project, result.Error
}

// FindByIDForUpdate retrieves a project and locks its row until the surrounding
// transaction ends. Every write to a project's files or history goes through this lock.
func (r *ProjectRepository) FindByIDForUpdate(ctx context.Context, id string) (models.Project, error) {
	var project models.Project
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&project, "id = ?", id)
	return project, result.Error
}

// WithFiles loads a project with its live files ordered by name
func (r *ProjectRepository) WithFiles(ctx context.Context, id string) (models.Project, error) {
	var project models.Project
	result := r.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&project, "id = ?", id)
	return project, result.Error
}

// FindByUserID retrieves all projects belonging to a user, most recently updated first
func (r *ProjectRepository) FindByUserID(ctx context.Context, userID string) ([]models.Project, error) {
	var projects []models.Project
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&projects)
	return projects, result.Error
}

// FindPublic retrieves all public projects with their owners, most recently updated first
func (r *ProjectRepository) FindPublic(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	result := r.db.WithContext(ctx).
		Preload("User").
		Where("is_public = ?", true).
		Order("updated_at DESC").
		Find(&projects)
	return projects, result.Error
}

// Create inserts a new project into the database
func (r *ProjectRepository) Create(ctx context.Context, project models.Project) (models.Project, error) {
	result := r.db.WithContext(ctx).Create(&project)
	return project, result.Error
}

// Updates applies a partial update; updated_at is refreshed by gorm
func (r *ProjectRepository) Updates(ctx context.Context, id string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		Updates(updates)
	return result.Error
}

// Touch bumps updated_at after a change to the project's files or history
func (r *ProjectRepository) Touch(ctx context.Context, id string) error {
	return r.Updates(ctx, id, map[string]interface{}{"updated_at": time.Now()})
}

// SetLastCommit records the commit the live files now correspond to
func (r *ProjectRepository) SetLastCommit(ctx context.Context, id, commitID string) error {
	return r.Updates(ctx, id, map[string]interface{}{"last_commit_id": commitID})
}

// SetDeployedURL caches the URL of the most recent deployment
func (r *ProjectRepository) SetDeployedURL(ctx context.Context, id, url string) error {
	return r.Updates(ctx, id, map[string]interface{}{"deployed_url": url})
}

// Delete soft deletes a project
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	return result.Error
}

// CountByUserID counts live projects belonging to a user
func (r *ProjectRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Project{}).Where("user_id = ?", userID).Count(&count)
	return count, result.Error
}

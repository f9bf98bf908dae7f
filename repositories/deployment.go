package repositories

import (
	"context"

	"github.com/codehub-server/models"
	"gorm.io/gorm"
)

// DeploymentRepository handles database operations for deployments
type DeploymentRepository struct {
	db *gorm.DB
}

// NewDeploymentRepository creates a new deployment repository instance
func NewDeploymentRepository(db *gorm.DB) *DeploymentRepository {
	return &DeploymentRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *DeploymentRepository) WithTx(tx *gorm.DB) *DeploymentRepository {
	return &DeploymentRepository{db: tx}
}

// FindServableBySlug retrieves a deployment in status deployed by its public slug
func (r *DeploymentRepository) FindServableBySlug(ctx context.Context, slug string) (models.Deployment, error) {
	var deployment models.Deployment
	result := r.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, models.DeploymentStatusDeployed).
		First(&deployment)
	return deployment, result.Error
}

// FindByProjectID retrieves all deployments of a project with their commits, newest first
func (r *DeploymentRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.Deployment, error) {
	var deployments []models.Deployment
	result := r.db.WithContext(ctx).
		Preload("Commit").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&deployments)
	return deployments, result.Error
}

// SlugsByProjectID lists the public slugs of a project's deployments
func (r *DeploymentRepository) SlugsByProjectID(ctx context.Context, projectID string) ([]string, error) {
	var slugs []string
	result := r.db.WithContext(ctx).Model(&models.Deployment{}).
		Where("project_id = ?", projectID).
		Pluck("slug", &slugs)
	return slugs, result.Error
}

// Create inserts a new deployment into the database
func (r *DeploymentRepository) Create(ctx context.Context, deployment models.Deployment) (models.Deployment, error) {
	deployment.Commit = nil
	result := r.db.WithContext(ctx).Create(&deployment)
	return deployment, result.Error
}

// DeleteByProjectID removes every deployment of a project
func (r *DeploymentRepository) DeleteByProjectID(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.Deployment{}).Error
}

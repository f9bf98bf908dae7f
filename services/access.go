package services

import (
	"context"

	"github.com/codehub-server/errs"
	"github.com/codehub-server/models"
	"github.com/codehub-server/repositories"
)

// ownedProject loads a project the user owns. Projects owned by someone else are reported
// as missing so their existence does not leak.
func ownedProject(ctx context.Context, repo *repositories.ProjectRepository, op, projectID, userID string) (models.Project, error) {
	project, err := repo.FindByID(ctx, projectID)
	if err != nil {
		return models.Project{}, storageErr(op, "project", err)
	}
	if project.UserID != userID {
		return models.Project{}, errs.NotFound("project")
	}
	return project, nil
}

// lockOwnedProject is ownedProject under a row lock. repo must be bound to a transaction.
func lockOwnedProject(ctx context.Context, repo *repositories.ProjectRepository, op, projectID, userID string) (models.Project, error) {
	project, err := repo.FindByIDForUpdate(ctx, projectID)
	if err != nil {
		return models.Project{}, storageErr(op, "project", err)
	}
	if project.UserID != userID {
		return models.Project{}, errs.NotFound("project")
	}
	return project, nil
}

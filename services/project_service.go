package services

import (
	"context"

	"github.com/codehub-server/dto"
	"github.com/codehub-server/errs"
	"github.com/codehub-server/lib/cache"
	"github.com/codehub-server/logutils"
	"github.com/codehub-server/metrics"
	"github.com/codehub-server/models"
	"github.com/codehub-server/repositories"
	"gorm.io/gorm"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	db             *gorm.DB
	projectRepo    *repositories.ProjectRepository
	fileRepo       *repositories.FileRepository
	commitRepo     *repositories.CommitRepository
	deploymentRepo *repositories.DeploymentRepository
	userRepo       *repositories.UserRepository
	renders        cache.RenderCache
}

// NewProjectService creates a new project service instance. renders is purged of a
// project's deployments when the project is deleted.
func NewProjectService(db *gorm.DB, renders cache.RenderCache) *ProjectService {
	return &ProjectService{
		db:             db,
		projectRepo:    repositories.NewProjectRepository(db),
		fileRepo:       repositories.NewFileRepository(db),
		commitRepo:     repositories.NewCommitRepository(db),
		deploymentRepo: repositories.NewDeploymentRepository(db),
		userRepo:       repositories.NewUserRepository(db),
		renders:        renders,
	}
}

// checkQuota locks the owner row and fails when the owner already holds the maximum
// number of live projects. tx must be the surrounding transaction.
func (s *ProjectService) checkQuota(ctx context.Context, tx *gorm.DB, op, ownerID string) error {
	if _, err := s.userRepo.WithTx(tx).LockByID(ctx, ownerID); err != nil {
		return storageErr(op, "user", err)
	}
	count, err := s.projectRepo.WithTx(tx).CountByUserID(ctx, ownerID)
	if err != nil {
		return errs.Storage(op, err)
	}
	if count >= models.MaxProjectsPerUser {
		return errs.ErrQuotaExceeded
	}
	return nil
}

// CreateProject creates a project seeded with a starter index.html, style.css and script.js
func (s *ProjectService) CreateProject(ctx context.Context, ownerID string, req dto.CreateProjectRequest) (project models.Project, err error) {
	defer func() { metrics.ObserveOperation("create_project", err) }()

	name, err := ValidateProjectName(req.Name)
	if err != nil {
		return project, err
	}
	description, err := ValidateDescription(req.Description)
	if err != nil {
		return project, err
	}

	err = withTx(ctx, s.db, "create project", func(tx *gorm.DB) error {
		if err := s.checkQuota(ctx, tx, "create project", ownerID); err != nil {
			return err
		}

		created, err := s.projectRepo.WithTx(tx).Create(ctx, models.Project{
			Name:        name,
			Description: description,
			UserID:      ownerID,
			IsPublic:    req.IsPublic,
		})
		if err != nil {
			return errs.Storage("create project", err)
		}

		files, err := s.fileRepo.WithTx(tx).CreateBatch(ctx, starterFiles(created.ID, name))
		if err != nil {
			return errs.Storage("create project files", err)
		}
		created.Files = files
		project = created
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}

	logutils.Log.WithFields(logutils.Fields{
		"project_id": project.ID,
		"user_id":    ownerID,
	}).Info("Project created")
	return project, nil
}

// ForkProject copies a public project and all of its files to a new private project
func (s *ProjectService) ForkProject(ctx context.Context, sourceID, ownerID string) (project models.Project, err error) {
	defer func() { metrics.ObserveOperation("fork_project", err) }()

	err = withTx(ctx, s.db, "fork project", func(tx *gorm.DB) error {
		projects := s.projectRepo.WithTx(tx)
		source, err := projects.WithFiles(ctx, sourceID)
		if err != nil {
			return storageErr("fork project", "project", err)
		}
		if !source.IsPublic {
			return errs.NotFound("project")
		}

		if err := s.checkQuota(ctx, tx, "fork project", ownerID); err != nil {
			return err
		}

		description := "Forked project"
		if source.Description != nil && *source.Description != "" {
			description = "Forked from: " + *source.Description
		}
		created, err := projects.Create(ctx, models.Project{
			Name:        source.Name + " (Fork)",
			Description: &description,
			UserID:      ownerID,
			IsPublic:    false,
		})
		if err != nil {
			return errs.Storage("fork project", err)
		}

		copies := make([]models.ProjectFile, 0, len(source.Files))
		for _, f := range source.Files {
			copies = append(copies, models.ProjectFile{
				ProjectID: created.ID,
				Name:      f.Name,
				Path:      f.Path,
				Content:   f.Content,
				FileType:  f.FileType,
				Size:      f.Size,
			})
		}
		if created.Files, err = s.fileRepo.WithTx(tx).CreateBatch(ctx, copies); err != nil {
			return errs.Storage("fork project files", err)
		}
		project = created
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}

	logutils.Log.WithFields(logutils.Fields{
		"project_id": project.ID,
		"source_id":  sourceID,
		"user_id":    ownerID,
	}).Info("Project forked")
	return project, nil
}

// SetVisibility makes a project public or private
func (s *ProjectService) SetVisibility(ctx context.Context, projectID, ownerID string, isPublic bool) (models.Project, error) {
	project, err := ownedProject(ctx, s.projectRepo, "set visibility", projectID, ownerID)
	if err != nil {
		return models.Project{}, err
	}
	if project.IsPublic == isPublic {
		return project, nil
	}

	if err := s.projectRepo.Updates(ctx, projectID, map[string]interface{}{"is_public": isPublic}); err != nil {
		return models.Project{}, errs.Storage("set visibility", err)
	}
	return s.reload(ctx, "set visibility", projectID)
}

// UpdateProject applies a partial update to the project's name, description and visibility
func (s *ProjectService) UpdateProject(ctx context.Context, projectID, ownerID string, req dto.UpdateProjectRequest) (models.Project, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		name, err := ValidateProjectName(*req.Name)
		if err != nil {
			return models.Project{}, err
		}
		updates["name"] = name
	}
	if req.Description != nil {
		description, err := ValidateDescription(req.Description)
		if err != nil {
			return models.Project{}, err
		}
		updates["description"] = description
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}

	project, err := ownedProject(ctx, s.projectRepo, "update project", projectID, ownerID)
	if err != nil {
		return models.Project{}, err
	}
	if len(updates) == 0 {
		return project, nil
	}

	if err := s.projectRepo.Updates(ctx, projectID, updates); err != nil {
		return models.Project{}, errs.Storage("update project", err)
	}
	return s.reload(ctx, "update project", projectID)
}

// DeleteProject removes a project with its files, history and deployments. The project row
// itself is soft deleted so it stops counting towards the owner's quota.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, ownerID string) (err error) {
	defer func() { metrics.ObserveOperation("delete_project", err) }()

	var slugs []string
	err = withTx(ctx, s.db, "delete project", func(tx *gorm.DB) error {
		projects := s.projectRepo.WithTx(tx)
		if _, err := lockOwnedProject(ctx, projects, "delete project", projectID, ownerID); err != nil {
			return err
		}

		deployments := s.deploymentRepo.WithTx(tx)
		if slugs, err = deployments.SlugsByProjectID(ctx, projectID); err != nil {
			return errs.Storage("delete project", err)
		}
		if err := deployments.DeleteByProjectID(ctx, projectID); err != nil {
			return errs.Storage("delete project", err)
		}
		if err := s.commitRepo.WithTx(tx).DeleteByProjectID(ctx, projectID); err != nil {
			return errs.Storage("delete project", err)
		}
		if _, err := s.fileRepo.WithTx(tx).DeleteByProjectID(ctx, projectID); err != nil {
			return errs.Storage("delete project", err)
		}
		if err := projects.Delete(ctx, projectID); err != nil {
			return errs.Storage("delete project", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(slugs) > 0 {
		if cacheErr := s.renders.Delete(ctx, slugs...); cacheErr != nil {
			// stale entries expire with the cache TTL
			logutils.Log.WithFields(logutils.Fields{"project_id": projectID}).WithError(cacheErr).Warn("Failed to evict cached deployments")
		}
	}

	logutils.Log.WithFields(logutils.Fields{
		"project_id":  projectID,
		"user_id":     ownerID,
		"deployments": len(slugs),
	}).Info("Project deleted")
	return nil
}

// GetProject returns a project with its files. Only the owner may read a private project.
func (s *ProjectService) GetProject(ctx context.Context, projectID, actorID string) (models.Project, error) {
	project, err := s.projectRepo.WithFiles(ctx, projectID)
	if err != nil {
		return models.Project{}, storageErr("get project", "project", err)
	}
	if project.UserID != actorID && !project.IsPublic {
		return models.Project{}, errs.ErrForbidden
	}
	return project, nil
}

// ListProjects returns the owner's projects, most recently updated first
func (s *ProjectService) ListProjects(ctx context.Context, ownerID string) ([]models.Project, error) {
	projects, err := s.projectRepo.FindByUserID(ctx, ownerID)
	if err != nil {
		return nil, errs.Storage("list projects", err)
	}
	return projects, nil
}

// ListPublicProjects returns every public project with its owner and file count
func (s *ProjectService) ListPublicProjects(ctx context.Context) ([]dto.PublicProjectResponse, error) {
	projects, err := s.projectRepo.FindPublic(ctx)
	if err != nil {
		return nil, errs.Storage("list public projects", err)
	}

	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	counts, err := s.fileRepo.CountByProjectIDs(ctx, ids)
	if err != nil {
		return nil, errs.Storage("list public projects", err)
	}

	response := make([]dto.PublicProjectResponse, 0, len(projects))
	for _, p := range projects {
		item := dto.PublicProjectResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			DeployedURL: p.DeployedURL,
			FileCount:   counts[p.ID],
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}
		if p.User != nil {
			item.Owner = &dto.OwnerSummary{
				ID:        p.User.ID,
				Username:  p.User.Username,
				FirstName: p.User.FirstName,
				LastName:  p.User.LastName,
			}
		}
		response = append(response, item)
	}
	return response, nil
}

func (s *ProjectService) reload(ctx context.Context, op, projectID string) (models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return models.Project{}, storageErr(op, "project", err)
	}
	return project, nil
}

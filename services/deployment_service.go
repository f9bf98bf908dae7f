package services

import (
	"context"
	"errors"
	"time"

	"github.com/codehub-server/dto"
	"github.com/codehub-server/errs"
	"github.com/codehub-server/lib/cache"
	"github.com/codehub-server/lib/renderer"
	"github.com/codehub-server/logutils"
	"github.com/codehub-server/metrics"
	"github.com/codehub-server/models"
	"github.com/codehub-server/repositories"
	"github.com/codehub-server/utils"
	"gorm.io/gorm"
)

// DeploymentService publishes commits under public URLs and renders them
type DeploymentService struct {
	db             *gorm.DB
	projectRepo    *repositories.ProjectRepository
	fileRepo       *repositories.FileRepository
	commitRepo     *repositories.CommitRepository
	deploymentRepo *repositories.DeploymentRepository
	snapshots      *SnapshotService
	renders        cache.RenderCache
	baseURL        string
	now            func() time.Time
}

// NewDeploymentService creates a new deployment service instance. Deployment URLs are
// built under baseURL.
func NewDeploymentService(db *gorm.DB, snapshots *SnapshotService, renders cache.RenderCache, baseURL string) *DeploymentService {
	return &DeploymentService{
		db:             db,
		projectRepo:    repositories.NewProjectRepository(db),
		fileRepo:       repositories.NewFileRepository(db),
		commitRepo:     repositories.NewCommitRepository(db),
		deploymentRepo: repositories.NewDeploymentRepository(db),
		snapshots:      snapshots,
		renders:        renders,
		baseURL:        baseURL,
		now:            time.Now,
	}
}

// Deploy publishes a commit of the project. With an empty commitID the live files are
// committed first and that commit is published.
func (s *DeploymentService) Deploy(ctx context.Context, projectID, ownerID, commitID string) (response dto.DeploymentResponse, err error) {
	defer func() { metrics.ObserveOperation("deploy", err) }()

	var deployment models.Deployment
	err = withTx(ctx, s.db, "deploy", func(tx *gorm.DB) error {
		projects := s.projectRepo.WithTx(tx)
		project, err := lockOwnedProject(ctx, projects, "deploy", projectID, ownerID)
		if err != nil {
			return err
		}

		if commitID == "" {
			count, err := s.fileRepo.WithTx(tx).CountByProjectID(ctx, projectID)
			if err != nil {
				return errs.Storage("deploy", err)
			}
			if count == 0 {
				return errs.ErrNoFilesToDeploy
			}
			message := "Deployment commit - " + s.now().UTC().Format(time.RFC3339)
			commit, err := s.snapshots.commitInTx(ctx, tx, project, ownerID, message)
			if err != nil {
				return err
			}
			commitID = commit.ID
		} else if _, err := s.commitRepo.WithTx(tx).FindByID(ctx, projectID, commitID); err != nil {
			return storageErr("deploy", "commit", err)
		}

		slug := utils.DeploymentSlug(project.Name, s.now())
		deployment, err = s.deploymentRepo.WithTx(tx).Create(ctx, models.Deployment{
			ProjectID: projectID,
			CommitID:  commitID,
			Slug:      slug,
			URL:       utils.DeploymentURL(s.baseURL, slug),
			Status:    models.DeploymentStatusDeployed,
		})
		if err != nil {
			return errs.Storage("deploy", err)
		}

		if err := projects.SetDeployedURL(ctx, projectID, deployment.URL); err != nil {
			return errs.Storage("deploy", err)
		}
		return nil
	})
	if err != nil {
		logutils.Log.WithFields(logutils.Fields{
			"op":         "deploy",
			"project_id": projectID,
			"user_id":    ownerID,
		}).WithError(err).Warn("Deployment failed")
		return dto.DeploymentResponse{}, err
	}

	logutils.Log.WithFields(logutils.Fields{
		"project_id": projectID,
		"commit_id":  deployment.CommitID,
		"slug":       deployment.Slug,
	}).Info("Project deployed")

	return dto.DeploymentResponse{
		ID:        deployment.ID,
		URL:       deployment.URL,
		Slug:      deployment.Slug,
		CommitID:  deployment.CommitID,
		Status:    deployment.Status,
		CreatedAt: deployment.CreatedAt,
	}, nil
}

// ListDeployments returns the project's deployments newest first
func (s *DeploymentService) ListDeployments(ctx context.Context, projectID, ownerID string) ([]models.Deployment, error) {
	if _, err := ownedProject(ctx, s.projectRepo, "list deployments", projectID, ownerID); err != nil {
		return nil, err
	}
	deployments, err := s.deploymentRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, errs.Storage("list deployments", err)
	}
	return deployments, nil
}

// RenderDeployment returns the published document for a slug. Rendered documents are
// cached; a deployment never changes once created.
func (s *DeploymentService) RenderDeployment(ctx context.Context, slug string) (string, error) {
	if document, ok, err := s.renders.Get(ctx, slug); err != nil {
		logutils.Log.WithFields(logutils.Fields{"slug": slug}).WithError(err).Warn("Render cache lookup failed")
	} else if ok {
		metrics.ObserveCacheLookup(true)
		return document, nil
	}
	metrics.ObserveCacheLookup(false)

	deployment, project, err := s.servable(ctx, slug)
	if err != nil {
		return "", err
	}
	files, err := s.commitRepo.FindFilesByCommitID(ctx, deployment.CommitID)
	if err != nil {
		return "", errs.Storage("render deployment", err)
	}

	start := time.Now()
	document, err := renderer.Render(commitRenderFiles(files), renderer.Meta{
		ProjectName:   project.Name,
		DeploymentURL: deployment.URL,
	})
	metrics.ObserveRender("deployment", time.Since(start))
	if err != nil {
		return "", renderErr(err)
	}

	if err := s.renders.Set(ctx, slug, document); err != nil {
		logutils.Log.WithFields(logutils.Fields{"slug": slug}).WithError(err).Warn("Failed to cache rendered deployment")
		return document, nil
	}

	// DeleteProject may have evicted the slug while we rendered; drop our write if so
	if _, _, err := s.servable(ctx, slug); err != nil {
		if delErr := s.renders.Delete(ctx, slug); delErr != nil {
			logutils.Log.WithFields(logutils.Fields{"slug": slug}).WithError(delErr).Warn("Failed to evict rendered deployment")
		}
		return "", err
	}
	return document, nil
}

// servable loads a deployed deployment and its live project. Deployments of deleted
// projects are not servable.
func (s *DeploymentService) servable(ctx context.Context, slug string) (models.Deployment, models.Project, error) {
	deployment, err := s.deploymentRepo.FindServableBySlug(ctx, slug)
	if err != nil {
		return models.Deployment{}, models.Project{}, storageErr("render deployment", "deployment", err)
	}
	project, err := s.projectRepo.FindByID(ctx, deployment.ProjectID)
	if err != nil {
		return models.Deployment{}, models.Project{}, storageErr("render deployment", "deployment", err)
	}
	return deployment, project, nil
}

// RenderPreview renders the live files, or a commit when commitID is set, for the owner.
// Previews carry no deployment meta and are never cached.
func (s *DeploymentService) RenderPreview(ctx context.Context, projectID, ownerID, commitID string) (string, error) {
	project, err := ownedProject(ctx, s.projectRepo, "render preview", projectID, ownerID)
	if err != nil {
		return "", err
	}

	var files []renderer.File
	if commitID != "" {
		if _, err := s.commitRepo.FindByID(ctx, projectID, commitID); err != nil {
			return "", storageErr("render preview", "commit", err)
		}
		snapshot, err := s.commitRepo.FindFilesByCommitID(ctx, commitID)
		if err != nil {
			return "", errs.Storage("render preview", err)
		}
		files = commitRenderFiles(snapshot)
	} else {
		live, err := s.fileRepo.FindByProjectID(ctx, projectID)
		if err != nil {
			return "", errs.Storage("render preview", err)
		}
		files = liveRenderFiles(live)
	}

	start := time.Now()
	document, err := renderer.Render(files, renderer.Meta{ProjectName: project.Name})
	metrics.ObserveRender("preview", time.Since(start))
	if err != nil {
		return "", renderErr(err)
	}
	return document, nil
}

func renderErr(err error) error {
	if errors.Is(err, renderer.ErrNoIndex) {
		return errs.ErrNoIndex
	}
	return errs.Storage("render", err)
}

func commitRenderFiles(files []models.CommitFile) []renderer.File {
	out := make([]renderer.File, 0, len(files))
	for _, f := range files {
		out = append(out, renderer.File{
			Name:     f.FileName,
			Path:     f.FilePath,
			Content:  f.FileContent,
			FileType: string(f.FileType),
		})
	}
	return out
}

func liveRenderFiles(files []models.ProjectFile) []renderer.File {
	out := make([]renderer.File, 0, len(files))
	for _, f := range files {
		out = append(out, renderer.File{
			Name:     f.Name,
			Path:     f.Path,
			Content:  f.Content,
			FileType: string(f.FileType),
		})
	}
	return out
}

package services

import (
	"context"

	"github.com/codehub-server/dto"
	"github.com/codehub-server/errs"
	"github.com/codehub-server/logutils"
	"github.com/codehub-server/metrics"
	"github.com/codehub-server/models"
	"github.com/codehub-server/repositories"
	"gorm.io/gorm"
)

// SnapshotService creates, lists and restores commits. A commit is a full copy of the live
// files at the moment it was taken and is never modified afterwards.
type SnapshotService struct {
	db          *gorm.DB
	projectRepo *repositories.ProjectRepository
	fileRepo    *repositories.FileRepository
	commitRepo  *repositories.CommitRepository
}

// NewSnapshotService creates a new snapshot service instance
func NewSnapshotService(db *gorm.DB) *SnapshotService {
	return &SnapshotService{
		db:          db,
		projectRepo: repositories.NewProjectRepository(db),
		fileRepo:    repositories.NewFileRepository(db),
		commitRepo:  repositories.NewCommitRepository(db),
	}
}

// CreateCommit snapshots the project's live files
func (s *SnapshotService) CreateCommit(ctx context.Context, projectID, authorID, message string) (summary repositories.CommitSummary, err error) {
	defer func() { metrics.ObserveOperation("create_commit", err) }()

	message, err = ValidateCommitMessage(message)
	if err != nil {
		return summary, err
	}

	err = withTx(ctx, s.db, "create commit", func(tx *gorm.DB) error {
		project, err := lockOwnedProject(ctx, s.projectRepo.WithTx(tx), "create commit", projectID, authorID)
		if err != nil {
			return err
		}
		summary, err = s.commitInTx(ctx, tx, project, authorID, message)
		return err
	})
	if err != nil {
		logutils.Log.WithFields(logutils.Fields{
			"op":         "create commit",
			"project_id": projectID,
			"user_id":    authorID,
		}).WithError(err).Warn("Commit failed")
		return repositories.CommitSummary{}, err
	}

	logutils.Log.WithFields(logutils.Fields{
		"project_id": projectID,
		"commit_id":  summary.ID,
		"files":      summary.FileCount,
	}).Info("Commit created")
	return summary, nil
}

// commitInTx writes a commit of the project's current files. The caller holds the project
// lock in tx and has validated message.
func (s *SnapshotService) commitInTx(ctx context.Context, tx *gorm.DB, project models.Project, authorID, message string) (repositories.CommitSummary, error) {
	files, err := s.fileRepo.WithTx(tx).FindByProjectID(ctx, project.ID)
	if err != nil {
		return repositories.CommitSummary{}, errs.Storage("create commit", err)
	}
	if len(files) == 0 {
		return repositories.CommitSummary{}, errs.ErrEmptyProject
	}

	commits := s.commitRepo.WithTx(tx)
	commit, err := commits.Create(ctx, models.Commit{
		ProjectID:      project.ID,
		AuthorID:       authorID,
		Message:        message,
		ParentCommitID: project.LastCommitID,
	})
	if err != nil {
		return repositories.CommitSummary{}, errs.Storage("create commit", err)
	}

	snapshot := make([]models.CommitFile, 0, len(files))
	for _, f := range files {
		sourceID := f.ID
		snapshot = append(snapshot, models.CommitFile{
			CommitID:     commit.ID,
			SourceFileID: &sourceID,
			FileName:     f.Name,
			FilePath:     f.Path,
			FileContent:  f.Content,
			FileType:     f.FileType,
		})
	}
	if err := commits.CreateFiles(ctx, snapshot); err != nil {
		return repositories.CommitSummary{}, errs.Storage("create commit files", err)
	}

	if err := s.projectRepo.WithTx(tx).SetLastCommit(ctx, project.ID, commit.ID); err != nil {
		return repositories.CommitSummary{}, errs.Storage("create commit", err)
	}

	return repositories.CommitSummary{Commit: commit, FileCount: int64(len(snapshot))}, nil
}

// RestoreCommit replaces the live files with the files of a commit. Restoring the commit
// the project already points at changes nothing.
func (s *SnapshotService) RestoreCommit(ctx context.Context, projectID, userID, commitID string) (result dto.RestoreResult, err error) {
	defer func() { metrics.ObserveOperation("restore_commit", err) }()

	result.CommitID = commitID
	err = withTx(ctx, s.db, "restore commit", func(tx *gorm.DB) error {
		projects := s.projectRepo.WithTx(tx)
		project, err := lockOwnedProject(ctx, projects, "restore commit", projectID, userID)
		if err != nil {
			return err
		}

		commits := s.commitRepo.WithTx(tx)
		if _, err := commits.FindByID(ctx, projectID, commitID); err != nil {
			return storageErr("restore commit", "commit", err)
		}
		if project.LastCommitID != nil && *project.LastCommitID == commitID {
			result.AlreadyUpToDate = true
			return nil
		}

		snapshot, err := commits.FindFilesByCommitID(ctx, commitID)
		if err != nil {
			return errs.Storage("restore commit", err)
		}

		files := s.fileRepo.WithTx(tx)
		removed, err := files.DeleteByProjectID(ctx, projectID)
		if err != nil {
			return errs.Storage("restore commit", err)
		}

		restored := make([]models.ProjectFile, 0, len(snapshot))
		for _, cf := range snapshot {
			f := models.ProjectFile{
				ProjectID: projectID,
				Name:      cf.FileName,
				Path:      cf.FilePath,
				FileType:  cf.FileType,
			}
			f.SetContent(cf.FileContent)
			restored = append(restored, f)
		}
		if _, err := files.CreateBatch(ctx, restored); err != nil {
			return errs.Storage("restore commit", err)
		}

		if err := projects.SetLastCommit(ctx, projectID, commitID); err != nil {
			return errs.Storage("restore commit", err)
		}

		result.FilesRemoved = int(removed)
		result.FilesAdded = len(restored)
		result.FilesRestored = len(restored)
		return nil
	})
	if err != nil {
		return dto.RestoreResult{}, err
	}

	logutils.Log.WithFields(logutils.Fields{
		"project_id": projectID,
		"commit_id":  commitID,
		"up_to_date": result.AlreadyUpToDate,
		"restored":   result.FilesRestored,
	}).Info("Commit restored")
	return result, nil
}

// ListCommits returns the project's commits newest first with their file counts
func (s *SnapshotService) ListCommits(ctx context.Context, projectID, userID string) ([]repositories.CommitSummary, error) {
	if _, err := ownedProject(ctx, s.projectRepo, "list commits", projectID, userID); err != nil {
		return nil, err
	}
	commits, err := s.commitRepo.ListWithFileCount(ctx, projectID)
	if err != nil {
		return nil, errs.Storage("list commits", err)
	}
	return commits, nil
}

// GetCommit returns one commit with its snapshot files
func (s *SnapshotService) GetCommit(ctx context.Context, projectID, userID, commitID string) (models.Commit, error) {
	if _, err := ownedProject(ctx, s.projectRepo, "get commit", projectID, userID); err != nil {
		return models.Commit{}, err
	}
	commit, err := s.commitRepo.WithFiles(ctx, projectID, commitID)
	if err != nil {
		return models.Commit{}, storageErr("get commit", "commit", err)
	}
	return commit, nil
}

package services

import (
	"context"

	"github.com/codehub-server/errs"
	"github.com/codehub-server/logutils"
	"github.com/codehub-server/metrics"
	"github.com/codehub-server/models"
	"github.com/codehub-server/repositories"
	"gorm.io/gorm"
)

// FileService manages the live files of a project. Every mutation holds the project row
// lock so it is ordered against commits, restores and deploys of the same project.
type FileService struct {
	db          *gorm.DB
	projectRepo *repositories.ProjectRepository
	fileRepo    *repositories.FileRepository
}

// NewFileService creates a new file service instance
func NewFileService(db *gorm.DB) *FileService {
	return &FileService{
		db:          db,
		projectRepo: repositories.NewProjectRepository(db),
		fileRepo:    repositories.NewFileRepository(db),
	}
}

// List returns the project's files ordered by name
func (s *FileService) List(ctx context.Context, projectID, userID string) ([]models.ProjectFile, error) {
	if _, err := ownedProject(ctx, s.projectRepo, "list files", projectID, userID); err != nil {
		return nil, err
	}
	files, err := s.fileRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, errs.Storage("list files", err)
	}
	return files, nil
}

// Get returns one file of the project
func (s *FileService) Get(ctx context.Context, projectID, userID, fileID string) (models.ProjectFile, error) {
	if _, err := ownedProject(ctx, s.projectRepo, "get file", projectID, userID); err != nil {
		return models.ProjectFile{}, err
	}
	file, err := s.fileRepo.FindByID(ctx, projectID, fileID)
	if err != nil {
		return models.ProjectFile{}, storageErr("get file", "file", err)
	}
	return file, nil
}

// Create adds a new file; its path is its name
func (s *FileService) Create(ctx context.Context, projectID, userID, name, content string) (file models.ProjectFile, err error) {
	defer func() { metrics.ObserveOperation("create_file", err) }()

	fileType, err := ValidateFileName(name)
	if err != nil {
		return models.ProjectFile{}, err
	}
	if err := ValidateFileContent(content, fileType); err != nil {
		return models.ProjectFile{}, err
	}

	err = withTx(ctx, s.db, "create file", func(tx *gorm.DB) error {
		if _, err := lockOwnedProject(ctx, s.projectRepo.WithTx(tx), "create file", projectID, userID); err != nil {
			return err
		}

		files := s.fileRepo.WithTx(tx)
		exists, err := files.ExistsByPath(ctx, projectID, name)
		if err != nil {
			return errs.Storage("create file", err)
		}
		if exists {
			return errs.ErrDuplicatePath.WithMessage("file %q already exists", name)
		}

		newFile := models.ProjectFile{
			ProjectID: projectID,
			Name:      name,
			Path:      name,
			FileType:  fileType,
		}
		newFile.SetContent(content)
		if file, err = files.Create(ctx, newFile); err != nil {
			return errs.Storage("create file", err)
		}
		if err := s.projectRepo.WithTx(tx).Touch(ctx, projectID); err != nil {
			return errs.Storage("create file", err)
		}
		return nil
	})
	if err != nil {
		return models.ProjectFile{}, err
	}

	logutils.Log.WithFields(logutils.Fields{
		"project_id": projectID,
		"file_id":    file.ID,
		"size":       file.Size,
	}).Info("File created")
	return file, nil
}

// Update replaces the content of a file
func (s *FileService) Update(ctx context.Context, projectID, userID, fileID, content string) (file models.ProjectFile, err error) {
	defer func() { metrics.ObserveOperation("update_file", err) }()

	err = withTx(ctx, s.db, "update file", func(tx *gorm.DB) error {
		if _, err := lockOwnedProject(ctx, s.projectRepo.WithTx(tx), "update file", projectID, userID); err != nil {
			return err
		}

		files := s.fileRepo.WithTx(tx)
		if file, err = files.FindByID(ctx, projectID, fileID); err != nil {
			return storageErr("update file", "file", err)
		}
		if err := ValidateFileContent(content, file.FileType); err != nil {
			return err
		}

		file.SetContent(content)
		if err := files.UpdateContent(ctx, file.ID, file.Content, file.Size); err != nil {
			return errs.Storage("update file", err)
		}
		if err := s.projectRepo.WithTx(tx).Touch(ctx, projectID); err != nil {
			return errs.Storage("update file", err)
		}
		if file, err = files.FindByID(ctx, projectID, fileID); err != nil {
			return errs.Storage("update file", err)
		}
		return nil
	})
	if err != nil {
		return models.ProjectFile{}, err
	}
	return file, nil
}

// Delete removes a file. index.html can never be removed.
func (s *FileService) Delete(ctx context.Context, projectID, userID, fileID string) (err error) {
	defer func() { metrics.ObserveOperation("delete_file", err) }()

	return withTx(ctx, s.db, "delete file", func(tx *gorm.DB) error {
		if _, err := lockOwnedProject(ctx, s.projectRepo.WithTx(tx), "delete file", projectID, userID); err != nil {
			return err
		}

		files := s.fileRepo.WithTx(tx)
		file, err := files.FindByID(ctx, projectID, fileID)
		if err != nil {
			return storageErr("delete file", "file", err)
		}
		if file.Name == models.IndexFileName {
			return errs.ErrEssentialFile
		}

		if err := files.Delete(ctx, file.ID); err != nil {
			return errs.Storage("delete file", err)
		}
		if err := s.projectRepo.WithTx(tx).Touch(ctx, projectID); err != nil {
			return errs.Storage("delete file", err)
		}
		return nil
	})
}

package services

import (
	"context"
	"strings"

	"github.com/codehub-server/dto"
	"github.com/codehub-server/errs"
	"github.com/codehub-server/repositories"
	"gorm.io/gorm"
)

// UserService serves the profile of the signed-in user
type UserService struct {
	userRepo    *repositories.UserRepository
	projectRepo *repositories.ProjectRepository
}

// NewUserService creates a new user service instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		userRepo:    repositories.NewUserRepository(db),
		projectRepo: repositories.NewProjectRepository(db),
	}
}

// GetProfile returns the user together with the number of live projects they own
func (s *UserService) GetProfile(ctx context.Context, userID string) (dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, storageErr("get profile", "user", err)
	}
	count, err := s.projectRepo.CountByUserID(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, errs.Storage("get profile", err)
	}
	return dto.ProfileResponse{User: user, ProjectCount: count}, nil
}

// UpdateProfile changes the name and email of a user
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (dto.ProfileResponse, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	email := strings.TrimSpace(req.Email)
	if firstName == "" || lastName == "" || email == "" {
		return dto.ProfileResponse{}, errs.ErrInvalidRequest.WithMessage("all fields are required")
	}

	current, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, storageErr("update profile", "user", err)
	}
	if email != current.Email {
		taken, err := s.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return dto.ProfileResponse{}, errs.Storage("update profile", err)
		}
		if taken {
			return dto.ProfileResponse{}, errs.ErrInvalidRequest.WithMessage("email already registered")
		}
	}

	err = s.userRepo.Updates(ctx, userID, map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
	})
	if err != nil {
		return dto.ProfileResponse{}, errs.Storage("update profile", err)
	}
	return s.GetProfile(ctx, userID)
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/codehub-server/dto"
	"github.com/codehub-server/errs"
	"github.com/codehub-server/logutils"
	"github.com/codehub-server/models"
	"github.com/codehub-server/repositories"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenTTL is how long an issued access token stays valid
const TokenTTL = 24 * time.Hour

var errMissingSecret = errors.New("JWT secret is not configured")

// AuthService handles registration, login and token validation
type AuthService struct {
	userRepo *repositories.UserRepository
	secret   []byte
}

// NewAuthService creates a new auth service signing tokens with secret
func NewAuthService(db *gorm.DB, secret string) *AuthService {
	return &AuthService{
		userRepo: repositories.NewUserRepository(db),
		secret:   []byte(secret),
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (models.User, error) {
	// Check if email already exists
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return models.User{}, errs.Storage("register", err)
	}
	if exists {
		return models.User{}, errs.ErrInvalidRequest.WithMessage("email already registered")
	}

	// Check if username exists if provided
	if req.Username != nil && *req.Username != "" {
		taken, err := s.userRepo.ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return models.User{}, errs.Storage("register", err)
		}
		if taken {
			return models.User{}, errs.ErrInvalidRequest.WithMessage("username already taken")
		}
	} else {
		req.Username = nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.userRepo.Create(ctx, models.User{
		Email:     req.Email,
		Password:  string(hashedPassword),
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleUser,
	})
	if err != nil {
		return models.User{}, errs.Storage("register", err)
	}

	logutils.Log.WithFields(logutils.Fields{"user_id": user.ID}).Info("User registered")
	return user, nil
}

// Login authenticates a user and returns a token
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	invalid := errs.ErrUnauthorized.WithMessage("invalid email or password")

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, invalid
	}
	if err != nil {
		return dto.AuthResponse{}, errs.Storage("login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return dto.AuthResponse{}, invalid
	}

	token, expiresAt, err := s.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user.Password = ""
	return dto.AuthResponse{
		Token:     token,
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}

// GenerateToken generates a new JWT token for a user
func (s *AuthService) GenerateToken(userID, email, role string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errMissingSecret
	}

	now := time.Now()
	expiresAt := now.Add(TokenTTL)

	claims := dto.TokenClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token and returns claims if valid
func (s *AuthService) ValidateToken(tokenString string) (*dto.TokenClaims, error) {
	if len(s.secret) == 0 {
		return nil, errMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &dto.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*dto.TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
	"github.com/result-academic/records-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(
	repo repositories.Repository,
	v *validator.Validator,
	logger *slog.Logger,
	jwtSecret string,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		repo:      repo,
		validator: v,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a self-service account with the default professor role.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	s.logger.Info("Registering user", "email", req.Email)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if taken, err := s.repo.User().ExistsByEmail(ctx, req.Email, 0); err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	} else if taken {
		return nil, NewConflictError("email is already registered")
	}
	if taken, err := s.repo.User().ExistsByCI(ctx, req.CI, 0); err != nil {
		return nil, fmt.Errorf("failed to check ci uniqueness: %w", err)
	} else if taken {
		return nil, NewConflictError("ci is already registered")
	}

	if req.DepartmentID != nil {
		if _, err := s.repo.Department().GetByID(ctx, *req.DepartmentID); err != nil {
			if isNotFound(err) {
				return nil, ErrDepartmentNotFound
			}
			return nil, fmt.Errorf("failed to load department: %w", err)
		}
	}

	role, err := s.repo.Role().GetByName(ctx, models.RoleProfessor)
	if err != nil {
		return nil, fmt.Errorf("failed to load default role: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:               req.Name,
		Email:              req.Email,
		CI:                 req.CI,
		Password:           string(hash),
		RoleID:             role.ID,
		DepartmentID:       req.DepartmentID,
		TeachingCategory:   req.TeachingCategory,
		ScientificCategory: req.ScientificCategory,
		ProfessionalLevel:  req.ProfessionalLevel,
		IsEnabled:          true,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	return s.repo.User().GetByID(ctx, user.ID)
}

// Login verifies credentials and issues a signed token. Disabled accounts
// cannot log in.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsEnabled {
		return nil, ErrAccountDisabled
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return &LoginResponse{Token: token, User: user}, nil
}

func (s *authService) signToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": user.RoleName(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

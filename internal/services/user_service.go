package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/result-academic/records-service/internal/authz"
	"github.com/result-academic/records-service/internal/events"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
	"github.com/result-academic/records-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	policy    *resultPolicy
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewUserService(
	repo repositories.Repository,
	resolver *authz.Resolver,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger *slog.Logger,
) UserService {
	return &userService{
		repo:      repo,
		policy:    newResultPolicy(repo, resolver),
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

// requirePermission loads the acting user and checks a single permission.
func (s *userService) requirePermission(ctx context.Context, actingUserID uint, permission, action string) (*models.User, error) {
	actor, err := s.policy.actor(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	perms, err := s.policy.permissions(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !perms.Has(permission) {
		return nil, NewPermissionError(actingUserID, "user", action, "missing "+permission+" permission")
	}
	return actor, nil
}

func (s *userService) Create(ctx context.Context, req *CreateUserRequest, actingUserID uint) (*models.User, error) {
	s.logger.Info("Creating user", "email", req.Email, "acting_user_id", actingUserID)

	actor, err := s.requirePermission(ctx, actingUserID, authz.PermManageUsers, "create")
	if err != nil {
		return nil, err
	}
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	role, err := s.repo.Role().GetByName(ctx, req.Role)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}
	// Granting anything beyond the default role needs the role assignment
	// permission on top of user management.
	if role.Name != models.RoleProfessor {
		perms, err := s.policy.permissions(ctx, actor)
		if err != nil {
			return nil, err
		}
		if !perms.Has(authz.PermAssignRoles) {
			return nil, NewPermissionError(actingUserID, "user", "create", "missing assign_roles permission")
		}
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

	s.logger.Info("User created", "user_id", user.ID, "acting_user_id", actingUserID)
	return s.repo.User().GetByID(ctx, user.ID)
}

func (s *userService) Update(ctx context.Context, id uint, req *UpdateUserRequest, actingUserID uint) (*models.User, error) {
	s.logger.Info("Updating user", "user_id", id, "acting_user_id", actingUserID)

	actor, err := s.requirePermission(ctx, actingUserID, authz.PermManageUsers, "update")
	if err != nil {
		return nil, err
	}
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	role, err := s.repo.Role().GetByName(ctx, req.Role)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}
	if role.ID != user.RoleID {
		perms, err := s.policy.permissions(ctx, actor)
		if err != nil {
			return nil, err
		}
		if !perms.Has(authz.PermAssignRoles) {
			return nil, NewPermissionError(actingUserID, "user", "update", "missing assign_roles permission")
		}
	}

	if taken, err := s.repo.User().ExistsByEmail(ctx, req.Email, id); err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	} else if taken {
		return nil, NewConflictError("email is already registered")
	}
	if taken, err := s.repo.User().ExistsByCI(ctx, req.CI, id); err != nil {
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

	user.Name = req.Name
	user.Email = req.Email
	user.CI = req.CI
	user.RoleID = role.ID
	user.DepartmentID = req.DepartmentID
	user.TeachingCategory = req.TeachingCategory
	user.ScientificCategory = req.ScientificCategory
	user.ProfessionalLevel = req.ProfessionalLevel

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hash)
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", "user_id", id, "acting_user_id", actingUserID)
	return s.repo.User().GetByID(ctx, id)
}

func (s *userService) GetByID(ctx context.Context, id uint, actingUserID uint) (*models.User, error) {
	if _, err := s.requireUserView(ctx, actingUserID); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, page, size int, actingUserID uint) (*UserListResponse, error) {
	if _, err := s.requireUserView(ctx, actingUserID); err != nil {
		return nil, err
	}

	page, size = normalizePage(page, size)
	users, total, err := s.repo.User().List(ctx, repositories.UserFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &UserListResponse{Users: users, Total: total, Page: page, Size: size}, nil
}

// Search finds enabled users by name or email. Available to every enabled
// account so result authors can be picked.
func (s *userService) Search(ctx context.Context, query string, page, size int, actingUserID uint) (*UserListResponse, error) {
	if _, err := s.policy.actor(ctx, actingUserID); err != nil {
		return nil, err
	}

	page, size = normalizePage(page, size)
	users, total, err := s.repo.User().Search(ctx, query, repositories.UserFilters{
		EnabledOnly: true,
		Limit:       size,
		Offset:      (page - 1) * size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return &UserListResponse{Users: users, Total: total, Page: page, Size: size}, nil
}

func (s *userService) SetStatus(ctx context.Context, id uint, enabled bool, actingUserID uint) (*models.User, error) {
	s.logger.Info("Changing user status", "user_id", id, "enabled", enabled, "acting_user_id", actingUserID)

	if _, err := s.requirePermission(ctx, actingUserID, authz.PermManageUsers, "set_status"); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !enabled {
		if id == actingUserID {
			return nil, NewPermissionError(actingUserID, "user", "set_status", "cannot disable your own account")
		}
		// The system must always keep at least one enabled admin.
		if user.IsEnabled && user.RoleName() == models.RoleAdmin {
			admins, err := s.repo.User().CountEnabledWithRole(ctx, models.RoleAdmin)
			if err != nil {
				return nil, fmt.Errorf("failed to count enabled admins: %w", err)
			}
			if admins <= 1 {
				return nil, NewConflictError("cannot disable the last enabled admin account")
			}
		}
	}

	if user.IsEnabled == enabled {
		return user, nil
	}

	user.IsEnabled = enabled
	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	s.publishStatusChange(ctx, id, enabled, actingUserID)
	s.logger.Info("User status changed", "user_id", id, "enabled", enabled)
	return s.repo.User().GetByID(ctx, id)
}

// Disable implements account deletion. Accounts are disabled so their
// authorships and records stay intact.
func (s *userService) Disable(ctx context.Context, id uint, actingUserID uint) (*models.User, error) {
	return s.SetStatus(ctx, id, false, actingUserID)
}

// requireUserView accepts either user management or the read-only listing
// permission.
func (s *userService) requireUserView(ctx context.Context, actingUserID uint) (*models.User, error) {
	actor, err := s.policy.actor(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	perms, err := s.policy.permissions(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !perms.Has(authz.PermViewAllUsers) && !perms.Has(authz.PermManageUsers) {
		return nil, NewPermissionError(actingUserID, "user", "view", "missing view_all_users permission")
	}
	return actor, nil
}

func (s *userService) publishStatusChange(ctx context.Context, userID uint, enabled bool, actorID uint) {
	err := s.publisher.Publish(ctx, &events.Event{
		Type: events.TypeUserStatusChanged,
		Data: events.UserStatusEventData{UserID: userID, IsEnabled: enabled, ActorID: actorID},
	})
	if err != nil {
		s.logger.Warn("Failed to publish user status event", "user_id", userID, "error", err)
	}
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = DefaultPageSize
	}
	return page, size
}

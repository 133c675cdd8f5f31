package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/result-academic/records-service/internal/authz"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
	"github.com/result-academic/records-service/internal/validator"
)

type roleService struct {
	repo      repositories.Repository
	policy    *resultPolicy
	resolver  *authz.Resolver
	validator *validator.Validator
	logger    *slog.Logger
}

func NewRoleService(
	repo repositories.Repository,
	resolver *authz.Resolver,
	v *validator.Validator,
	logger *slog.Logger,
) RoleService {
	return &roleService{
		repo:      repo,
		policy:    newResultPolicy(repo, resolver),
		resolver:  resolver,
		validator: v,
		logger:    logger,
	}
}

func (s *roleService) requireManage(ctx context.Context, actingUserID uint, action string) error {
	actor, err := s.policy.actor(ctx, actingUserID)
	if err != nil {
		return err
	}
	perms, err := s.policy.permissions(ctx, actor)
	if err != nil {
		return err
	}
	if !perms.Has(authz.PermManageRolesPermissions) {
		return NewPermissionError(actingUserID, "role", action, "missing manage_roles_permissions permission")
	}
	return nil
}

func (s *roleService) List(ctx context.Context, actingUserID uint) ([]*models.Role, error) {
	if err := s.requireManage(ctx, actingUserID, "list"); err != nil {
		return nil, err
	}
	roles, err := s.repo.Role().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (s *roleService) ListPermissions(ctx context.Context, actingUserID uint) ([]*models.Permission, error) {
	if err := s.requireManage(ctx, actingUserID, "list_permissions"); err != nil {
		return nil, err
	}
	permissions, err := s.repo.Role().ListPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return permissions, nil
}

// Create creates a role with the given permission set. Creating a role whose
// name already exists returns the existing role unchanged.
func (s *roleService) Create(ctx context.Context, req *CreateRoleRequest, actingUserID uint) (*models.Role, error) {
	s.logger.Info("Creating role", "name", req.Name, "acting_user_id", actingUserID)

	if err := s.requireManage(ctx, actingUserID, "create"); err != nil {
		return nil, err
	}
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	names, err := normalizePermissionNames(req.Permissions)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.Role().GetByName(ctx, req.Name); err == nil {
		return existing, nil
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to check role name: %w", err)
	}

	role := &models.Role{Name: req.Name, Description: req.Description}
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Role().Create(ctx, role); err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		permissions, err := txRepo.Role().EnsurePermissions(ctx, names)
		if err != nil {
			return err
		}
		return txRepo.Role().SyncPermissions(ctx, role.ID, permissions)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	s.logger.Info("Role created", "role_id", role.ID, "name", role.Name)
	return s.repo.Role().GetByID(ctx, role.ID)
}

// SyncPermissions replaces the role's permission set and drops its cached
// permissions so the change takes effect on the next request.
func (s *roleService) SyncPermissions(ctx context.Context, roleID uint, permissions []string, actingUserID uint) (*models.Role, error) {
	s.logger.Info("Syncing role permissions", "role_id", roleID, "acting_user_id", actingUserID)

	if err := s.requireManage(ctx, actingUserID, "sync_permissions"); err != nil {
		return nil, err
	}

	role, err := s.repo.Role().GetByID(ctx, roleID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}
	if role.Name == models.RoleAdmin {
		return nil, NewBusinessRuleError("protected_role", "the admin role cannot be modified")
	}

	names, err := normalizePermissionNames(permissions)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		ensured, err := txRepo.Role().EnsurePermissions(ctx, names)
		if err != nil {
			return err
		}
		return txRepo.Role().SyncPermissions(ctx, roleID, ensured)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sync role permissions: %w", err)
	}

	if err := s.resolver.InvalidateRole(ctx, roleID); err != nil {
		s.logger.Warn("Failed to invalidate role permission cache", "role_id", roleID, "error", err)
	}

	s.logger.Info("Role permissions synced", "role_id", roleID, "permissions", len(names))
	return s.repo.Role().GetByID(ctx, roleID)
}

// Delete removes a role, moving its bearers to the default professor role.
func (s *roleService) Delete(ctx context.Context, roleID uint, actingUserID uint) error {
	s.logger.Info("Deleting role", "role_id", roleID, "acting_user_id", actingUserID)

	if err := s.requireManage(ctx, actingUserID, "delete"); err != nil {
		return err
	}

	role, err := s.repo.Role().GetByID(ctx, roleID)
	if err != nil {
		if isNotFound(err) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to load role: %w", err)
	}
	if role.Name == models.RoleAdmin {
		return NewBusinessRuleError("protected_role", "the admin role cannot be deleted")
	}
	if role.Name == models.RoleProfessor {
		return NewBusinessRuleError("protected_role", "the default professor role cannot be deleted")
	}

	professor, err := s.repo.Role().GetByName(ctx, models.RoleProfessor)
	if err != nil {
		return fmt.Errorf("failed to load professor role: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		moved, err := txRepo.Role().ReassignUsers(ctx, roleID, professor.ID)
		if err != nil {
			return err
		}
		if moved > 0 {
			s.logger.Info("Reassigned role bearers", "role_id", roleID, "moved", moved)
		}
		return txRepo.Role().Delete(ctx, roleID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	if err := s.resolver.InvalidateRole(ctx, roleID); err != nil {
		s.logger.Warn("Failed to invalidate role permission cache", "role_id", roleID, "error", err)
	}

	s.logger.Info("Role deleted", "role_id", roleID)
	return nil
}

// normalizePermissionNames maps aliases to canonical names, deduplicates and
// rejects names outside the vocabulary.
func normalizePermissionNames(raw []string) ([]string, error) {
	var errs ValidationErrors
	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		if !authz.IsKnownPermission(name) {
			errs = append(errs, ValidationError{
				Field:   "permissions",
				Message: fmt.Sprintf("unknown permission %q", name),
				Value:   name,
				Rule:    "known_permission",
			})
			continue
		}
		canonical := authz.Normalize(name)
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		names = append(names, canonical)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return names, nil
}

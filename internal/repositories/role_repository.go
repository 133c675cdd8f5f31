package repositories

import (
	"context"

	"github.com/result-academic/records-service/internal/models"
)

// RoleRepository interface for role and permission operations
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id uint) error

	// Reads preload permissions
	GetByID(ctx context.Context, id uint) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]*models.Role, error)

	// PermissionNames loads only the permission names granted to a role.
	// Satisfies authz.PermissionSource.
	PermissionNames(ctx context.Context, roleID uint) ([]string, error)

	// Permission vocabulary
	ListPermissions(ctx context.Context) ([]*models.Permission, error)
	EnsurePermissions(ctx context.Context, names []string) ([]models.Permission, error)

	// SyncPermissions replaces the role's permission set
	SyncPermissions(ctx context.Context, roleID uint, permissions []models.Permission) error

	// ReassignUsers moves every bearer of one role to another, returning the
	// number of users moved
	ReassignUsers(ctx context.Context, fromRoleID, toRoleID uint) (int64, error)
}

package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/result-academic/records-service/internal/cache"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
)

type RolePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewRolePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.RoleRepository {
	return &RolePostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (r *RolePostgreSQL) Create(ctx context.Context, role *models.Role) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

func (r *RolePostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to clear role permissions: %w", err)
		}
		if err := tx.Delete(&models.Role{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete role: %w", err)
		}
		return nil
	})
}

func (r *RolePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		First(&role, id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RolePostgreSQL) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("name = ?", name).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RolePostgreSQL) List(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Order("name ASC").
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// PermissionNames loads the permission names of a role without hydrating the
// full models. Backs the authz resolver.
func (r *RolePostgreSQL) PermissionNames(ctx context.Context, roleID uint) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("permissions").
		Select("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load permission names: %w", err)
	}
	return names, nil
}

func (r *RolePostgreSQL) ListPermissions(ctx context.Context) ([]*models.Permission, error) {
	var permissions []*models.Permission
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return permissions, nil
}

// EnsurePermissions creates any missing permissions and returns the rows for
// all requested names.
func (r *RolePostgreSQL) EnsurePermissions(ctx context.Context, names []string) ([]models.Permission, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows := make([]models.Permission, 0, len(names))
	for _, name := range names {
		rows = append(rows, models.Permission{Name: name})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure permissions: %w", err)
	}

	var permissions []models.Permission
	err = r.db.WithContext(ctx).
		Where("name IN ?", names).
		Find(&permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ensured permissions: %w", err)
	}
	return permissions, nil
}

// SyncPermissions replaces the role's permission set.
func (r *RolePostgreSQL) SyncPermissions(ctx context.Context, roleID uint, permissions []models.Permission) error {
	role := models.Role{ID: roleID}
	err := r.db.WithContext(ctx).
		Model(&role).
		Association("Permissions").
		Replace(permissions)
	if err != nil {
		return fmt.Errorf("failed to sync role permissions: %w", err)
	}
	return nil
}

// ReassignUsers moves every bearer of one role to another and drops the
// bearers' cached rows, so the next request resolves permissions against the
// new role instead of the deleted one.
func (r *RolePostgreSQL) ReassignUsers(ctx context.Context, fromRoleID, toRoleID uint) (int64, error) {
	var userIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role_id = ?", fromRoleID).
		Pluck("id", &userIDs).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load role bearers: %w", err)
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id IN ?", userIDs).
		Update("role_id", toRoleID)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reassign users: %w", result.Error)
	}

	for _, id := range userIDs {
		cache.InvalidateUserCache(ctx, r.cacheManager, id)
	}
	return result.RowsAffected, nil
}

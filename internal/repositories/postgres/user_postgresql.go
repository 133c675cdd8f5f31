package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/result-academic/records-service/internal/cache"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	cache.InvalidateUserCache(ctx, u.cacheManager, user.ID)
	return nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":                user.Name,
		"email":               user.Email,
		"ci":                  user.CI,
		"password":            user.Password,
		"role_id":             user.RoleID,
		"department_id":       user.DepartmentID,
		"teaching_category":   user.TeachingCategory,
		"scientific_category": user.ScientificCategory,
		"professional_level":  user.ProfessionalLevel,
		"is_enabled":          user.IsEnabled,
	}).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	cache.InvalidateUserCache(ctx, u.cacheManager, user.ID)
	return nil
}

// GetByID retrieves a user with role permissions and department, cached.
func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var user models.User

	err := u.cacheManager.User.CacheOrExecute(ctx, cacheKey, &user, cache.FastCacheConfig.TTL, func() (interface{}, error) {
		var dbUser models.User
		err := u.db.WithContext(ctx).
			Preload("Role.Permissions").
			Preload("Department").
			First(&dbUser, id).Error
		if err != nil {
			return nil, err
		}
		return &dbUser, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Preload("Role.Permissions").
		Preload("Department").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByIDs(ctx context.Context, ids []uint) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var users []*models.User
	err := u.db.WithContext(ctx).
		Preload("Department").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}
	return users, nil
}

func (u *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := u.db.WithContext(ctx).Model(&models.User{})
	query = u.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*models.User
	err := query.
		Preload("Role").
		Preload("Department").
		Order("name ASC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

func (u *UserPostgreSQL) Search(ctx context.Context, searchQuery string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	pattern := "%" + searchQuery + "%"
	query := u.db.WithContext(ctx).Model(&models.User{}).
		Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	query = u.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	var users []*models.User
	err := query.
		Preload("Department").
		Order("name ASC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search users: %w", err)
	}

	return users, total, nil
}

func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	query := u.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) ExistsByCI(ctx context.Context, ci string, excludeID uint) (bool, error) {
	query := u.db.WithContext(ctx).Model(&models.User{}).Where("ci = ?", ci)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check ci existence: %w", err)
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) CountEnabledWithRole(ctx context.Context, roleName string) (int64, error) {
	var count int64
	err := u.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ? AND users.is_enabled = ?", roleName, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count enabled users with role: %w", err)
	}
	return count, nil
}

func (u *UserPostgreSQL) applyFilters(query *gorm.DB, filters repositories.UserFilters) *gorm.DB {
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if filters.DepartmentID != nil {
		query = query.Where("department_id = ?", *filters.DepartmentID)
	}
	if filters.RoleName != nil {
		query = query.Where("role_id IN (?)", u.db.Model(&models.Role{}).Select("id").Where("name = ?", *filters.RoleName))
	}
	if filters.EnabledOnly {
		query = query.Where("is_enabled = ?", true)
	}
	return query
}

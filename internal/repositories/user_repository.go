package repositories

import (
	"context"

	"github.com/result-academic/records-service/internal/models"
)

// UserRepository interface for user operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error

	// Reads preload Role (with permissions) and Department
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.User, error)

	// List and search operations
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Search(ctx context.Context, query string, filters UserFilters) ([]*models.User, int64, error)

	// Uniqueness checks; excludeID ignores one user (0 to disable)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	ExistsByCI(ctx context.Context, ci string, excludeID uint) (bool, error)

	// CountEnabledWithRole counts enabled accounts holding the named role
	CountEnabledWithRole(ctx context.Context, roleName string) (int64, error)
}

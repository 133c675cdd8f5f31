package repositories

import (
	"context"

	"github.com/result-academic/records-service/internal/models"
)

// DepartmentRepository interface for department operations
type DepartmentRepository interface {
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*models.Department, error)

	// List fills MemberCount per department
	List(ctx context.Context, filters DepartmentFilters) ([]*models.Department, int64, error)

	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	CountMembers(ctx context.Context, id uint) (int64, error)
}

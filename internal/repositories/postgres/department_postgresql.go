package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
)

type DepartmentPostgreSQL struct {
	db *gorm.DB
}

func NewDepartmentPostgreSQL(db *gorm.DB) repositories.DepartmentRepository {
	return &DepartmentPostgreSQL{db: db}
}

func (d *DepartmentPostgreSQL) Create(ctx context.Context, department *models.Department) error {
	if err := d.db.WithContext(ctx).Create(department).Error; err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (d *DepartmentPostgreSQL) Update(ctx context.Context, department *models.Department) error {
	err := d.db.WithContext(ctx).Model(&models.Department{}).Where("id = ?", department.ID).Updates(map[string]interface{}{
		"name":         department.Name,
		"description":  department.Description,
		"head_user_id": department.HeadUserID,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}
	return nil
}

func (d *DepartmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := d.db.WithContext(ctx).Delete(&models.Department{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}

func (d *DepartmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Department, error) {
	var department models.Department
	err := d.db.WithContext(ctx).
		Preload("Head").
		First(&department, id).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (d *DepartmentPostgreSQL) List(ctx context.Context, filters repositories.DepartmentFilters) ([]*models.Department, int64, error) {
	query := d.db.WithContext(ctx).Model(&models.Department{})
	if filters.Query != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count departments: %w", err)
	}

	var departments []*models.Department
	q := query.Preload("Head").Order("name ASC")
	if filters.Limit > 0 {
		q = q.Limit(filters.Limit).Offset(filters.Offset)
	}
	if err := q.Find(&departments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list departments: %w", err)
	}

	for _, dept := range departments {
		count, err := d.CountMembers(ctx, dept.ID)
		if err != nil {
			return nil, 0, err
		}
		dept.MemberCount = count
	}

	return departments, total, nil
}

func (d *DepartmentPostgreSQL) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	query := d.db.WithContext(ctx).Model(&models.Department{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check department name: %w", err)
	}
	return count > 0, nil
}

func (d *DepartmentPostgreSQL) CountMembers(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.User{}).
		Where("department_id = ?", id).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count department members: %w", err)
	}
	return count, nil
}

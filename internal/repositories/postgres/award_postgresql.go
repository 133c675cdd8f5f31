package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/result-academic/records-service/internal/cache"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
)

type AwardPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewAwardPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.AwardRepository {
	return &AwardPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (a *AwardPostgreSQL) Create(ctx context.Context, award *models.Award) error {
	if err := a.db.WithContext(ctx).Omit("Authors").Create(award).Error; err != nil {
		return fmt.Errorf("failed to create award: %w", err)
	}
	cache.InvalidateResultCache(ctx, a.cacheManager, "award", award.ID)
	return nil
}

func (a *AwardPostgreSQL) Update(ctx context.Context, award *models.Award) error {
	err := a.db.WithContext(ctx).Model(&models.Award{}).Where("id = ?", award.ID).Updates(map[string]interface{}{
		"name":        award.Name,
		"type":        award.Type,
		"date":        award.Date,
		"description": award.Description,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update award: %w", err)
	}
	cache.InvalidateResultCache(ctx, a.cacheManager, "award", award.ID)
	return nil
}

func (a *AwardPostgreSQL) Delete(ctx context.Context, id uint) error {
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM award_user WHERE award_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to clear award authors: %w", err)
		}
		if err := tx.Delete(&models.Award{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete award: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateResultCache(ctx, a.cacheManager, "award", id)
	return nil
}

func (a *AwardPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Award, error) {
	var award models.Award
	err := a.db.WithContext(ctx).
		Preload("Authors").
		Preload("Authors.Department").
		First(&award, id).Error
	if err != nil {
		return nil, err
	}
	return &award, nil
}

func (a *AwardPostgreSQL) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.Award, int64, error) {
	query := a.db.WithContext(ctx).Model(&models.Award{})
	query = a.helpers.ApplyResultScope(query, "awards", "award_user", "award_id", filters.Scope)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count awards: %w", err)
	}

	var awards []*models.Award
	q := a.helpers.ApplyResultOrdering(query, "awards")
	q = a.helpers.ApplyPagination(q, filters.Limit, filters.Offset)
	err := q.
		Preload("Authors").
		Preload("Authors.Department").
		Find(&awards).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list awards: %w", err)
	}

	return awards, total, nil
}

func (a *AwardPostgreSQL) ReplaceAuthors(ctx context.Context, award *models.Award, authors []models.User) error {
	err := a.db.WithContext(ctx).
		Model(award).
		Association("Authors").
		Replace(authorPointers(authors))
	if err != nil {
		return fmt.Errorf("failed to replace award authors: %w", err)
	}
	cache.InvalidateResultCache(ctx, a.cacheManager, "award", award.ID)
	return nil
}

func (a *AwardPostgreSQL) RemoveAuthor(ctx context.Context, awardID, userID uint) error {
	err := a.db.WithContext(ctx).
		Exec("DELETE FROM award_user WHERE award_id = ? AND user_id = ?", awardID, userID).Error
	if err != nil {
		return fmt.Errorf("failed to remove award author: %w", err)
	}
	cache.InvalidateResultCache(ctx, a.cacheManager, "award", awardID)
	return nil
}

func (a *AwardPostgreSQL) CountAuthors(ctx context.Context, awardID uint) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Table("award_user").
		Where("award_id = ?", awardID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count award authors: %w", err)
	}
	return count, nil
}

package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/result-academic/records-service/internal/cache"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
)

type RecognitionPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewRecognitionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.RecognitionRepository {
	return &RecognitionPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (r *RecognitionPostgreSQL) Create(ctx context.Context, recognition *models.Recognition) error {
	if err := r.db.WithContext(ctx).Omit("Authors").Create(recognition).Error; err != nil {
		return fmt.Errorf("failed to create recognition: %w", err)
	}
	cache.InvalidateResultCache(ctx, r.cacheManager, "recognition", recognition.ID)
	return nil
}

func (r *RecognitionPostgreSQL) Update(ctx context.Context, recognition *models.Recognition) error {
	err := r.db.WithContext(ctx).Model(&models.Recognition{}).Where("id = ?", recognition.ID).Updates(map[string]interface{}{
		"name":        recognition.Name,
		"type":        recognition.Type,
		"date":        recognition.Date,
		"description": recognition.Description,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update recognition: %w", err)
	}
	cache.InvalidateResultCache(ctx, r.cacheManager, "recognition", recognition.ID)
	return nil
}

func (r *RecognitionPostgreSQL) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recognition_user WHERE recognition_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to clear recognition authors: %w", err)
		}
		if err := tx.Delete(&models.Recognition{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete recognition: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateResultCache(ctx, r.cacheManager, "recognition", id)
	return nil
}

func (r *RecognitionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Recognition, error) {
	var recognition models.Recognition
	err := r.db.WithContext(ctx).
		Preload("Authors").
		Preload("Authors.Department").
		First(&recognition, id).Error
	if err != nil {
		return nil, err
	}
	return &recognition, nil
}

func (r *RecognitionPostgreSQL) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.Recognition, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Recognition{})
	query = r.helpers.ApplyResultScope(query, "recognitions", "recognition_user", "recognition_id", filters.Scope)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recognitions: %w", err)
	}

	var recognitions []*models.Recognition
	q := r.helpers.ApplyResultOrdering(query, "recognitions")
	q = r.helpers.ApplyPagination(q, filters.Limit, filters.Offset)
	err := q.
		Preload("Authors").
		Preload("Authors.Department").
		Find(&recognitions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recognitions: %w", err)
	}

	return recognitions, total, nil
}

func (r *RecognitionPostgreSQL) ReplaceAuthors(ctx context.Context, recognition *models.Recognition, authors []models.User) error {
	err := r.db.WithContext(ctx).
		Model(recognition).
		Association("Authors").
		Replace(authorPointers(authors))
	if err != nil {
		return fmt.Errorf("failed to replace recognition authors: %w", err)
	}
	cache.InvalidateResultCache(ctx, r.cacheManager, "recognition", recognition.ID)
	return nil
}

func (r *RecognitionPostgreSQL) RemoveAuthor(ctx context.Context, recognitionID, userID uint) error {
	err := r.db.WithContext(ctx).
		Exec("DELETE FROM recognition_user WHERE recognition_id = ? AND user_id = ?", recognitionID, userID).Error
	if err != nil {
		return fmt.Errorf("failed to remove recognition author: %w", err)
	}
	cache.InvalidateResultCache(ctx, r.cacheManager, "recognition", recognitionID)
	return nil
}

func (r *RecognitionPostgreSQL) CountAuthors(ctx context.Context, recognitionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("recognition_user").
		Where("recognition_id = ?", recognitionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count recognition authors: %w", err)
	}
	return count, nil
}

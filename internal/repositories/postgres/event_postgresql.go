package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/result-academic/records-service/internal/cache"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
)

type EventPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewEventPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.EventRepository {
	return &EventPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (e *EventPostgreSQL) Create(ctx context.Context, event *models.Event) error {
	if err := e.db.WithContext(ctx).Omit("Authors").Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	cache.InvalidateResultCache(ctx, e.cacheManager, "event", event.ID)
	return nil
}

func (e *EventPostgreSQL) Update(ctx context.Context, event *models.Event) error {
	err := e.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", event.ID).Updates(map[string]interface{}{
		"name":        event.Name,
		"category":    event.Category,
		"date":        event.Date,
		"description": event.Description,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	cache.InvalidateResultCache(ctx, e.cacheManager, "event", event.ID)
	return nil
}

func (e *EventPostgreSQL) Delete(ctx context.Context, id uint) error {
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM event_user WHERE event_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to clear event authors: %w", err)
		}
		if err := tx.Delete(&models.Event{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateResultCache(ctx, e.cacheManager, "event", id)
	return nil
}

func (e *EventPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := e.db.WithContext(ctx).
		Preload("Authors").
		Preload("Authors.Department").
		First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (e *EventPostgreSQL) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.Event, int64, error) {
	query := e.db.WithContext(ctx).Model(&models.Event{})
	query = e.helpers.ApplyResultScope(query, "events", "event_user", "event_id", filters.Scope)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	var events []*models.Event
	q := e.helpers.ApplyResultOrdering(query, "events")
	q = e.helpers.ApplyPagination(q, filters.Limit, filters.Offset)
	err := q.
		Preload("Authors").
		Preload("Authors.Department").
		Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	return events, total, nil
}

func (e *EventPostgreSQL) ReplaceAuthors(ctx context.Context, event *models.Event, authors []models.User) error {
	err := e.db.WithContext(ctx).
		Model(event).
		Association("Authors").
		Replace(authorPointers(authors))
	if err != nil {
		return fmt.Errorf("failed to replace event authors: %w", err)
	}
	cache.InvalidateResultCache(ctx, e.cacheManager, "event", event.ID)
	return nil
}

func (e *EventPostgreSQL) RemoveAuthor(ctx context.Context, eventID, userID uint) error {
	err := e.db.WithContext(ctx).
		Exec("DELETE FROM event_user WHERE event_id = ? AND user_id = ?", eventID, userID).Error
	if err != nil {
		return fmt.Errorf("failed to remove event author: %w", err)
	}
	cache.InvalidateResultCache(ctx, e.cacheManager, "event", eventID)
	return nil
}

func (e *EventPostgreSQL) CountAuthors(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Table("event_user").
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count event authors: %w", err)
	}
	return count, nil
}

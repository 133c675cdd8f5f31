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

type PublicationPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewPublicationPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.PublicationRepository {
	return &PublicationPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (p *PublicationPostgreSQL) Create(ctx context.Context, publication *models.Publication) error {
	if err := p.db.WithContext(ctx).Omit("Authors").Create(publication).Error; err != nil {
		return fmt.Errorf("failed to create publication: %w", err)
	}
	cache.InvalidateResultCache(ctx, p.cacheManager, "publication", publication.ID)
	return nil
}

func (p *PublicationPostgreSQL) Update(ctx context.Context, publication *models.Publication) error {
	err := p.db.WithContext(ctx).Model(&models.Publication{}).Where("id = ?", publication.ID).Updates(map[string]interface{}{
		"name":        publication.Name,
		"type":        publication.Type,
		"date":        publication.Date,
		"description": publication.Description,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update publication: %w", err)
	}
	cache.InvalidateResultCache(ctx, p.cacheManager, "publication", publication.ID)
	return nil
}

// Delete removes the publication with its detail record and author links.
func (p *PublicationPostgreSQL) Delete(ctx context.Context, id uint) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := p.deleteDetails(tx, id, ""); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM publication_user WHERE publication_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to clear publication authors: %w", err)
		}
		if err := tx.Delete(&models.Publication{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete publication: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateResultCache(ctx, p.cacheManager, "publication", id)
	return nil
}

func (p *PublicationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Publication, error) {
	var publication models.Publication
	err := p.db.WithContext(ctx).
		Preload("Authors").
		Preload("Authors.Department").
		Preload("Magazine").
		Preload("Book").
		Preload("Chapter").
		First(&publication, id).Error
	if err != nil {
		return nil, err
	}
	return &publication, nil
}

func (p *PublicationPostgreSQL) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.Publication, int64, error) {
	query := p.db.WithContext(ctx).Model(&models.Publication{})
	query = p.helpers.ApplyResultScope(query, "publications", "publication_user", "publication_id", filters.Scope)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count publications: %w", err)
	}

	var publications []*models.Publication
	q := p.helpers.ApplyResultOrdering(query, "publications")
	q = p.helpers.ApplyPagination(q, filters.Limit, filters.Offset)
	err := q.
		Preload("Authors").
		Preload("Authors.Department").
		Preload("Magazine").
		Preload("Book").
		Preload("Chapter").
		Find(&publications).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list publications: %w", err)
	}

	return publications, total, nil
}

// ReplaceDetail upserts the detail record matching the publication type and
// removes the others. Used on create and when the type changes on update.
func (p *PublicationPostgreSQL) ReplaceDetail(ctx context.Context, publication *models.Publication) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := p.deleteDetails(tx, publication.ID, string(publication.Type)); err != nil {
			return err
		}

		onConflict := clause.OnConflict{
			Columns:   []clause.Column{{Name: "publication_id"}},
			UpdateAll: true,
		}

		switch publication.Type {
		case models.PublicationJournal:
			if publication.Magazine == nil {
				return fmt.Errorf("journal publication requires magazine detail")
			}
			publication.Magazine.PublicationID = publication.ID
			return tx.Clauses(onConflict).Create(publication.Magazine).Error
		case models.PublicationBook:
			if publication.Book == nil {
				return fmt.Errorf("book publication requires book detail")
			}
			publication.Book.PublicationID = publication.ID
			return tx.Clauses(onConflict).Create(publication.Book).Error
		case models.PublicationBookChapter:
			if publication.Chapter == nil {
				return fmt.Errorf("book chapter publication requires chapter detail")
			}
			publication.Chapter.PublicationID = publication.ID
			return tx.Clauses(onConflict).Create(publication.Chapter).Error
		default:
			return fmt.Errorf("unknown publication type %q", publication.Type)
		}
	})
}

// deleteDetails removes detail rows except the one for keepType ("" removes all).
func (p *PublicationPostgreSQL) deleteDetails(tx *gorm.DB, publicationID uint, keepType string) error {
	if keepType != string(models.PublicationJournal) {
		if err := tx.Where("publication_id = ?", publicationID).Delete(&models.Magazine{}).Error; err != nil {
			return fmt.Errorf("failed to delete magazine detail: %w", err)
		}
	}
	if keepType != string(models.PublicationBook) {
		if err := tx.Where("publication_id = ?", publicationID).Delete(&models.Book{}).Error; err != nil {
			return fmt.Errorf("failed to delete book detail: %w", err)
		}
	}
	if keepType != string(models.PublicationBookChapter) {
		if err := tx.Where("publication_id = ?", publicationID).Delete(&models.Chapter{}).Error; err != nil {
			return fmt.Errorf("failed to delete chapter detail: %w", err)
		}
	}
	return nil
}

func (p *PublicationPostgreSQL) ReplaceAuthors(ctx context.Context, publication *models.Publication, authors []models.User) error {
	err := p.db.WithContext(ctx).
		Model(publication).
		Association("Authors").
		Replace(authorPointers(authors))
	if err != nil {
		return fmt.Errorf("failed to replace publication authors: %w", err)
	}
	cache.InvalidateResultCache(ctx, p.cacheManager, "publication", publication.ID)
	return nil
}

func (p *PublicationPostgreSQL) RemoveAuthor(ctx context.Context, publicationID, userID uint) error {
	err := p.db.WithContext(ctx).
		Exec("DELETE FROM publication_user WHERE publication_id = ? AND user_id = ?", publicationID, userID).Error
	if err != nil {
		return fmt.Errorf("failed to remove publication author: %w", err)
	}
	cache.InvalidateResultCache(ctx, p.cacheManager, "publication", publicationID)
	return nil
}

func (p *PublicationPostgreSQL) CountAuthors(ctx context.Context, publicationID uint) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("publication_user").
		Where("publication_id = ?", publicationID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count publication authors: %w", err)
	}
	return count, nil
}

// authorPointers adapts a user slice for gorm association calls.
func authorPointers(users []models.User) []*models.User {
	out := make([]*models.User, len(users))
	for i := range users {
		out[i] = &users[i]
	}
	return out
}

package repositories

import (
	"context"

	"github.com/result-academic/records-service/internal/models"
)

// PublicationRepository interface for publication operations. Reads preload
// authors (with their departments) and the detail record matching the type.
type PublicationRepository interface {
	Create(ctx context.Context, publication *models.Publication) error
	Update(ctx context.Context, publication *models.Publication) error
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*models.Publication, error)
	List(ctx context.Context, filters ResultFilters) ([]*models.Publication, int64, error)

	// ReplaceDetail deletes detail records not matching the publication type
	// and upserts the matching one
	ReplaceDetail(ctx context.Context, publication *models.Publication) error

	ReplaceAuthors(ctx context.Context, publication *models.Publication, authors []models.User) error
	RemoveAuthor(ctx context.Context, publicationID, userID uint) error
	CountAuthors(ctx context.Context, publicationID uint) (int64, error)
}

// AwardRepository interface for award operations
type AwardRepository interface {
	Create(ctx context.Context, award *models.Award) error
	Update(ctx context.Context, award *models.Award) error
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*models.Award, error)
	List(ctx context.Context, filters ResultFilters) ([]*models.Award, int64, error)

	ReplaceAuthors(ctx context.Context, award *models.Award, authors []models.User) error
	RemoveAuthor(ctx context.Context, awardID, userID uint) error
	CountAuthors(ctx context.Context, awardID uint) (int64, error)
}

// RecognitionRepository interface for recognition operations
type RecognitionRepository interface {
	Create(ctx context.Context, recognition *models.Recognition) error
	Update(ctx context.Context, recognition *models.Recognition) error
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*models.Recognition, error)
	List(ctx context.Context, filters ResultFilters) ([]*models.Recognition, int64, error)

	ReplaceAuthors(ctx context.Context, recognition *models.Recognition, authors []models.User) error
	RemoveAuthor(ctx context.Context, recognitionID, userID uint) error
	CountAuthors(ctx context.Context, recognitionID uint) (int64, error)
}

// EventRepository interface for scientific event operations
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*models.Event, error)
	List(ctx context.Context, filters ResultFilters) ([]*models.Event, int64, error)

	ReplaceAuthors(ctx context.Context, event *models.Event, authors []models.User) error
	RemoveAuthor(ctx context.Context, eventID, userID uint) error
	CountAuthors(ctx context.Context, eventID uint) (int64, error)
}

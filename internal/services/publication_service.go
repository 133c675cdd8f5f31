package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/result-academic/records-service/internal/authz"
	"github.com/result-academic/records-service/internal/events"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
	"github.com/result-academic/records-service/internal/validator"
)

type publicationService struct {
	repo      repositories.Repository
	policy    *resultPolicy
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewPublicationService(
	repo repositories.Repository,
	resolver *authz.Resolver,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger *slog.Logger,
) PublicationService {
	return &publicationService{
		repo:      repo,
		policy:    newResultPolicy(repo, resolver),
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *publicationService) Create(ctx context.Context, req *CreatePublicationRequest, userID uint) (*PublicationResponse, error) {
	s.logger.Info("Creating publication", "user_id", userID, "name", req.Name, "type", req.Type)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.requireCreate(ctx, actor, "publication"); err != nil {
		return nil, err
	}
	if errs := s.validator.ValidatePublicationPayload(req); len(errs) > 0 {
		return nil, errs
	}

	date, err := parseResultDate(req.Date)
	if err != nil {
		return nil, err
	}
	authors, err := s.policy.resolveAuthors(ctx, req.AuthorIDs, actor)
	if err != nil {
		return nil, err
	}

	publication := &models.Publication{
		Name:        req.Name,
		Type:        models.PublicationType(req.Type),
		Date:        date,
		Description: req.Description,
	}
	applyPublicationDetail(publication, req)

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Publication().Create(ctx, publication); err != nil {
			return err
		}
		return txRepo.Publication().ReplaceAuthors(ctx, publication, authors)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create publication: %w", err)
	}

	s.publishResult(ctx, events.TypeResultCreated, publication.ID, userID)
	s.logger.Info("Publication created", "publication_id", publication.ID, "user_id", userID)

	return s.respond(ctx, actor, publication.ID)
}

func (s *publicationService) GetByID(ctx context.Context, id uint, userID uint) (*PublicationResponse, error) {
	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionView)
	if err != nil {
		return nil, err
	}

	publication, err := s.repo.Publication().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPublicationNotFound
		}
		return nil, fmt.Errorf("failed to get publication: %w", err)
	}
	// Out-of-scope results are reported as missing rather than forbidden.
	if !scope.Allows(publication.Authors) {
		return nil, ErrPublicationNotFound
	}

	canEdit, canDelete, err := s.policy.flags(ctx, actor, publication.Authors)
	if err != nil {
		return nil, err
	}
	return &PublicationResponse{Publication: publication, CanEdit: canEdit, CanDelete: canDelete}, nil
}

func (s *publicationService) List(ctx context.Context, page int, userID uint) (*PublicationListResponse, error) {
	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	perms, err := s.policy.permissions(ctx, actor)
	if err != nil {
		return nil, err
	}

	viewScope := authz.ResolveScope(perms, authz.ActionView, actor)
	editScope := authz.ResolveScope(perms, authz.ActionEdit, actor)
	deleteScope := authz.ResolveScope(perms, authz.ActionDelete, actor)

	filters := listFilters(viewScope, page)
	publications, total, err := s.repo.Publication().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}

	responses := make([]*PublicationResponse, len(publications))
	for i, p := range publications {
		responses[i] = &PublicationResponse{
			Publication: p,
			CanEdit:     editScope.Allows(p.Authors),
			CanDelete:   deleteScope.Allows(p.Authors),
		}
	}

	if page < 1 {
		page = 1
	}
	return &PublicationListResponse{
		Publications: responses,
		Total:        total,
		Page:         page,
		Size:         DefaultPageSize,
	}, nil
}

func (s *publicationService) Update(ctx context.Context, id uint, req *UpdatePublicationRequest, userID uint) (*PublicationResponse, error) {
	s.logger.Info("Updating publication", "publication_id", id, "user_id", userID)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Publication().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPublicationNotFound
		}
		return nil, fmt.Errorf("failed to get publication: %w", err)
	}

	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionEdit)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(existing.Authors) {
		return nil, NewPermissionError(userID, "publication", "edit", "result is outside the user's edit scope")
	}

	if errs := s.validator.ValidatePublicationPayload(req); len(errs) > 0 {
		return nil, errs
	}
	date, err := parseResultDate(req.Date)
	if err != nil {
		return nil, err
	}
	authors, err := s.policy.resolveAuthors(ctx, req.AuthorIDs, actor)
	if err != nil {
		return nil, err
	}

	publication := &models.Publication{
		ID:          id,
		Name:        req.Name,
		Type:        models.PublicationType(req.Type),
		Date:        date,
		Description: req.Description,
	}
	applyPublicationDetail(publication, req)

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Publication().Update(ctx, publication); err != nil {
			return err
		}
		// A type change drops the stale detail record and upserts the new one.
		if err := txRepo.Publication().ReplaceDetail(ctx, publication); err != nil {
			return err
		}
		return txRepo.Publication().ReplaceAuthors(ctx, publication, authors)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update publication: %w", err)
	}

	s.publishResult(ctx, events.TypeResultUpdated, id, userID)
	s.logger.Info("Publication updated", "publication_id", id, "user_id", userID)

	return s.respond(ctx, actor, id)
}

func (s *publicationService) Delete(ctx context.Context, id uint, userID uint) (DeleteOutcome, error) {
	s.logger.Info("Deleting publication", "publication_id", id, "user_id", userID)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return "", err
	}

	existing, err := s.repo.Publication().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "", ErrPublicationNotFound
		}
		return "", fmt.Errorf("failed to get publication: %w", err)
	}

	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionDelete)
	if err != nil {
		return "", err
	}
	if !scope.Allows(existing.Authors) {
		return "", NewPermissionError(userID, "publication", "delete", "result is outside the user's delete scope")
	}

	// Own-scope deletes on co-authored results detach only the acting user's
	// authorship, preserving the result for the remaining authors.
	if scope.Kind == authz.ScopeOwn {
		count, err := s.repo.Publication().CountAuthors(ctx, id)
		if err != nil {
			return "", err
		}
		if count > 1 {
			if err := s.repo.Publication().RemoveAuthor(ctx, id, actor.ID); err != nil {
				return "", err
			}
			s.publishResult(ctx, events.TypeResultDetached, id, userID)
			s.logger.Info("Publication authorship detached", "publication_id", id, "user_id", userID)
			return OutcomeDetached, nil
		}
	}

	if err := s.repo.Publication().Delete(ctx, id); err != nil {
		return "", fmt.Errorf("failed to delete publication: %w", err)
	}

	s.publishResult(ctx, events.TypeResultDeleted, id, userID)
	s.logger.Info("Publication deleted", "publication_id", id, "user_id", userID)
	return OutcomeDeleted, nil
}

// respond reloads the publication with preloads and computes the access flags.
func (s *publicationService) respond(ctx context.Context, actor *models.User, id uint) (*PublicationResponse, error) {
	publication, err := s.repo.Publication().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload publication: %w", err)
	}
	canEdit, canDelete, err := s.policy.flags(ctx, actor, publication.Authors)
	if err != nil {
		return nil, err
	}
	return &PublicationResponse{Publication: publication, CanEdit: canEdit, CanDelete: canDelete}, nil
}

func (s *publicationService) publishResult(ctx context.Context, eventType string, id, actorID uint) {
	err := s.publisher.Publish(ctx, &events.Event{
		Type: eventType,
		Data: events.ResultEventData{Resource: "publication", ResultID: id, ActorID: actorID},
	})
	if err != nil {
		s.logger.Warn("Failed to publish publication event",
			"event_type", eventType, "publication_id", id, "error", err)
	}
}

// applyPublicationDetail copies the detail payload matching the type onto the
// model. Payload validation guarantees exactly one matching detail is present.
func applyPublicationDetail(publication *models.Publication, req *CreatePublicationRequest) {
	switch models.PublicationType(req.Type) {
	case models.PublicationJournal:
		publication.Magazine = &models.Magazine{
			PublicationID: publication.ID,
			Name:          req.Magazine.Name,
			Number:        req.Magazine.Number,
			Volume:        req.Magazine.Volume,
			DOI:           req.Magazine.DOI,
		}
	case models.PublicationBook:
		publication.Book = &models.Book{
			PublicationID: publication.ID,
			Editorial:     req.Book.Editorial,
			Place:         req.Book.Place,
		}
	case models.PublicationBookChapter:
		publication.Chapter = &models.Chapter{
			PublicationID: publication.ID,
			BookName:      req.Chapter.BookName,
			Author:        req.Chapter.Author,
			Editorial:     req.Chapter.Editorial,
			Place:         req.Chapter.Place,
		}
	}
}

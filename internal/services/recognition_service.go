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

type recognitionService struct {
	repo      repositories.Repository
	policy    *resultPolicy
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewRecognitionService(
	repo repositories.Repository,
	resolver *authz.Resolver,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger *slog.Logger,
) RecognitionService {
	return &recognitionService{
		repo:      repo,
		policy:    newResultPolicy(repo, resolver),
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *recognitionService) Create(ctx context.Context, req *CreateRecognitionRequest, userID uint) (*RecognitionResponse, error) {
	s.logger.Info("Creating recognition", "user_id", userID, "name", req.Name)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.requireCreate(ctx, actor, "recognition"); err != nil {
		return nil, err
	}
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	date, err := parseOptionalResultDate(req.Date)
	if err != nil {
		return nil, err
	}
	authors, err := s.policy.resolveAuthors(ctx, req.AuthorIDs, actor)
	if err != nil {
		return nil, err
	}

	recognition := &models.Recognition{
		Name:        req.Name,
		Type:        req.Type,
		Date:        date,
		Description: req.Description,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Recognition().Create(ctx, recognition); err != nil {
			return err
		}
		return txRepo.Recognition().ReplaceAuthors(ctx, recognition, authors)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create recognition: %w", err)
	}

	s.publishResult(ctx, events.TypeResultCreated, recognition.ID, userID)
	s.logger.Info("Recognition created", "recognition_id", recognition.ID, "user_id", userID)

	return s.respond(ctx, actor, recognition.ID)
}

func (s *recognitionService) GetByID(ctx context.Context, id uint, userID uint) (*RecognitionResponse, error) {
	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionView)
	if err != nil {
		return nil, err
	}

	recognition, err := s.repo.Recognition().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRecognitionNotFound
		}
		return nil, fmt.Errorf("failed to get recognition: %w", err)
	}
	if !scope.Allows(recognition.Authors) {
		return nil, ErrRecognitionNotFound
	}

	canEdit, canDelete, err := s.policy.flags(ctx, actor, recognition.Authors)
	if err != nil {
		return nil, err
	}
	return &RecognitionResponse{Recognition: recognition, CanEdit: canEdit, CanDelete: canDelete}, nil
}

func (s *recognitionService) List(ctx context.Context, page int, userID uint) (*RecognitionListResponse, error) {
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

	recognitions, total, err := s.repo.Recognition().List(ctx, listFilters(viewScope, page))
	if err != nil {
		return nil, fmt.Errorf("failed to list recognitions: %w", err)
	}

	responses := make([]*RecognitionResponse, len(recognitions))
	for i, r := range recognitions {
		responses[i] = &RecognitionResponse{
			Recognition: r,
			CanEdit:     editScope.Allows(r.Authors),
			CanDelete:   deleteScope.Allows(r.Authors),
		}
	}

	if page < 1 {
		page = 1
	}
	return &RecognitionListResponse{Recognitions: responses, Total: total, Page: page, Size: DefaultPageSize}, nil
}

func (s *recognitionService) Update(ctx context.Context, id uint, req *UpdateRecognitionRequest, userID uint) (*RecognitionResponse, error) {
	s.logger.Info("Updating recognition", "recognition_id", id, "user_id", userID)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Recognition().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRecognitionNotFound
		}
		return nil, fmt.Errorf("failed to get recognition: %w", err)
	}

	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionEdit)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(existing.Authors) {
		return nil, NewPermissionError(userID, "recognition", "edit", "result is outside the user's edit scope")
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}
	date, err := parseOptionalResultDate(req.Date)
	if err != nil {
		return nil, err
	}
	authors, err := s.policy.resolveAuthors(ctx, req.AuthorIDs, actor)
	if err != nil {
		return nil, err
	}

	recognition := &models.Recognition{
		ID:          id,
		Name:        req.Name,
		Type:        req.Type,
		Date:        date,
		Description: req.Description,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Recognition().Update(ctx, recognition); err != nil {
			return err
		}
		return txRepo.Recognition().ReplaceAuthors(ctx, recognition, authors)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update recognition: %w", err)
	}

	s.publishResult(ctx, events.TypeResultUpdated, id, userID)
	s.logger.Info("Recognition updated", "recognition_id", id, "user_id", userID)

	return s.respond(ctx, actor, id)
}

func (s *recognitionService) Delete(ctx context.Context, id uint, userID uint) (DeleteOutcome, error) {
	s.logger.Info("Deleting recognition", "recognition_id", id, "user_id", userID)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return "", err
	}

	existing, err := s.repo.Recognition().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "", ErrRecognitionNotFound
		}
		return "", fmt.Errorf("failed to get recognition: %w", err)
	}

	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionDelete)
	if err != nil {
		return "", err
	}
	if !scope.Allows(existing.Authors) {
		return "", NewPermissionError(userID, "recognition", "delete", "result is outside the user's delete scope")
	}

	if scope.Kind == authz.ScopeOwn {
		count, err := s.repo.Recognition().CountAuthors(ctx, id)
		if err != nil {
			return "", err
		}
		if count > 1 {
			if err := s.repo.Recognition().RemoveAuthor(ctx, id, actor.ID); err != nil {
				return "", err
			}
			s.publishResult(ctx, events.TypeResultDetached, id, userID)
			s.logger.Info("Recognition authorship detached", "recognition_id", id, "user_id", userID)
			return OutcomeDetached, nil
		}
	}

	if err := s.repo.Recognition().Delete(ctx, id); err != nil {
		return "", fmt.Errorf("failed to delete recognition: %w", err)
	}

	s.publishResult(ctx, events.TypeResultDeleted, id, userID)
	s.logger.Info("Recognition deleted", "recognition_id", id, "user_id", userID)
	return OutcomeDeleted, nil
}

func (s *recognitionService) respond(ctx context.Context, actor *models.User, id uint) (*RecognitionResponse, error) {
	recognition, err := s.repo.Recognition().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload recognition: %w", err)
	}
	canEdit, canDelete, err := s.policy.flags(ctx, actor, recognition.Authors)
	if err != nil {
		return nil, err
	}
	return &RecognitionResponse{Recognition: recognition, CanEdit: canEdit, CanDelete: canDelete}, nil
}

func (s *recognitionService) publishResult(ctx context.Context, eventType string, id, actorID uint) {
	err := s.publisher.Publish(ctx, &events.Event{
		Type: eventType,
		Data: events.ResultEventData{Resource: "recognition", ResultID: id, ActorID: actorID},
	})
	if err != nil {
		s.logger.Warn("Failed to publish recognition event",
			"event_type", eventType, "recognition_id", id, "error", err)
	}
}

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

type awardService struct {
	repo      repositories.Repository
	policy    *resultPolicy
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewAwardService(
	repo repositories.Repository,
	resolver *authz.Resolver,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger *slog.Logger,
) AwardService {
	return &awardService{
		repo:      repo,
		policy:    newResultPolicy(repo, resolver),
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *awardService) Create(ctx context.Context, req *CreateAwardRequest, userID uint) (*AwardResponse, error) {
	s.logger.Info("Creating award", "user_id", userID, "name", req.Name)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.requireCreate(ctx, actor, "award"); err != nil {
		return nil, err
	}
	if errs := s.validator.Validate(req); len(errs) > 0 {
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

	award := &models.Award{
		Name:        req.Name,
		Type:        req.Type,
		Date:        date,
		Description: req.Description,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Award().Create(ctx, award); err != nil {
			return err
		}
		return txRepo.Award().ReplaceAuthors(ctx, award, authors)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create award: %w", err)
	}

	s.publishResult(ctx, events.TypeResultCreated, award.ID, userID)
	s.logger.Info("Award created", "award_id", award.ID, "user_id", userID)

	return s.respond(ctx, actor, award.ID)
}

func (s *awardService) GetByID(ctx context.Context, id uint, userID uint) (*AwardResponse, error) {
	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionView)
	if err != nil {
		return nil, err
	}

	award, err := s.repo.Award().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAwardNotFound
		}
		return nil, fmt.Errorf("failed to get award: %w", err)
	}
	if !scope.Allows(award.Authors) {
		return nil, ErrAwardNotFound
	}

	canEdit, canDelete, err := s.policy.flags(ctx, actor, award.Authors)
	if err != nil {
		return nil, err
	}
	return &AwardResponse{Award: award, CanEdit: canEdit, CanDelete: canDelete}, nil
}

func (s *awardService) List(ctx context.Context, page int, userID uint) (*AwardListResponse, error) {
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

	awards, total, err := s.repo.Award().List(ctx, listFilters(viewScope, page))
	if err != nil {
		return nil, fmt.Errorf("failed to list awards: %w", err)
	}

	responses := make([]*AwardResponse, len(awards))
	for i, a := range awards {
		responses[i] = &AwardResponse{
			Award:     a,
			CanEdit:   editScope.Allows(a.Authors),
			CanDelete: deleteScope.Allows(a.Authors),
		}
	}

	if page < 1 {
		page = 1
	}
	return &AwardListResponse{Awards: responses, Total: total, Page: page, Size: DefaultPageSize}, nil
}

func (s *awardService) Update(ctx context.Context, id uint, req *UpdateAwardRequest, userID uint) (*AwardResponse, error) {
	s.logger.Info("Updating award", "award_id", id, "user_id", userID)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Award().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAwardNotFound
		}
		return nil, fmt.Errorf("failed to get award: %w", err)
	}

	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionEdit)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(existing.Authors) {
		return nil, NewPermissionError(userID, "award", "edit", "result is outside the user's edit scope")
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
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

	award := &models.Award{
		ID:          id,
		Name:        req.Name,
		Type:        req.Type,
		Date:        date,
		Description: req.Description,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Award().Update(ctx, award); err != nil {
			return err
		}
		return txRepo.Award().ReplaceAuthors(ctx, award, authors)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update award: %w", err)
	}

	s.publishResult(ctx, events.TypeResultUpdated, id, userID)
	s.logger.Info("Award updated", "award_id", id, "user_id", userID)

	return s.respond(ctx, actor, id)
}

func (s *awardService) Delete(ctx context.Context, id uint, userID uint) (DeleteOutcome, error) {
	s.logger.Info("Deleting award", "award_id", id, "user_id", userID)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return "", err
	}

	existing, err := s.repo.Award().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "", ErrAwardNotFound
		}
		return "", fmt.Errorf("failed to get award: %w", err)
	}

	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionDelete)
	if err != nil {
		return "", err
	}
	if !scope.Allows(existing.Authors) {
		return "", NewPermissionError(userID, "award", "delete", "result is outside the user's delete scope")
	}

	if scope.Kind == authz.ScopeOwn {
		count, err := s.repo.Award().CountAuthors(ctx, id)
		if err != nil {
			return "", err
		}
		if count > 1 {
			if err := s.repo.Award().RemoveAuthor(ctx, id, actor.ID); err != nil {
				return "", err
			}
			s.publishResult(ctx, events.TypeResultDetached, id, userID)
			s.logger.Info("Award authorship detached", "award_id", id, "user_id", userID)
			return OutcomeDetached, nil
		}
	}

	if err := s.repo.Award().Delete(ctx, id); err != nil {
		return "", fmt.Errorf("failed to delete award: %w", err)
	}

	s.publishResult(ctx, events.TypeResultDeleted, id, userID)
	s.logger.Info("Award deleted", "award_id", id, "user_id", userID)
	return OutcomeDeleted, nil
}

func (s *awardService) respond(ctx context.Context, actor *models.User, id uint) (*AwardResponse, error) {
	award, err := s.repo.Award().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload award: %w", err)
	}
	canEdit, canDelete, err := s.policy.flags(ctx, actor, award.Authors)
	if err != nil {
		return nil, err
	}
	return &AwardResponse{Award: award, CanEdit: canEdit, CanDelete: canDelete}, nil
}

func (s *awardService) publishResult(ctx context.Context, eventType string, id, actorID uint) {
	err := s.publisher.Publish(ctx, &events.Event{
		Type: eventType,
		Data: events.ResultEventData{Resource: "award", ResultID: id, ActorID: actorID},
	})
	if err != nil {
		s.logger.Warn("Failed to publish award event",
			"event_type", eventType, "award_id", id, "error", err)
	}
}

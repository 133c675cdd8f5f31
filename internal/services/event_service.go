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

type eventService struct {
	repo      repositories.Repository
	policy    *resultPolicy
	validator *validator.Validator
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewEventService(
	repo repositories.Repository,
	resolver *authz.Resolver,
	v *validator.Validator,
	publisher events.EventPublisher,
	logger *slog.Logger,
) EventService {
	return &eventService{
		repo:      repo,
		policy:    newResultPolicy(repo, resolver),
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *eventService) Create(ctx context.Context, req *CreateEventRequest, userID uint) (*EventResponse, error) {
	s.logger.Info("Creating event", "user_id", userID, "name", req.Name)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.requireCreate(ctx, actor, "event"); err != nil {
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

	event := &models.Event{
		Name:        req.Name,
		Category:    req.Category,
		Date:        date,
		Description: req.Description,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Event().Create(ctx, event); err != nil {
			return err
		}
		return txRepo.Event().ReplaceAuthors(ctx, event, authors)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.publishResult(ctx, events.TypeResultCreated, event.ID, userID)
	s.logger.Info("Event created", "event_id", event.ID, "user_id", userID)

	return s.respond(ctx, actor, event.ID)
}

func (s *eventService) GetByID(ctx context.Context, id uint, userID uint) (*EventResponse, error) {
	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionView)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.Event().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if !scope.Allows(event.Authors) {
		return nil, ErrEventNotFound
	}

	canEdit, canDelete, err := s.policy.flags(ctx, actor, event.Authors)
	if err != nil {
		return nil, err
	}
	return &EventResponse{Event: event, CanEdit: canEdit, CanDelete: canDelete}, nil
}

func (s *eventService) List(ctx context.Context, page int, userID uint) (*EventListResponse, error) {
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

	eventsList, total, err := s.repo.Event().List(ctx, listFilters(viewScope, page))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	responses := make([]*EventResponse, len(eventsList))
	for i, e := range eventsList {
		responses[i] = &EventResponse{
			Event:     e,
			CanEdit:   editScope.Allows(e.Authors),
			CanDelete: deleteScope.Allows(e.Authors),
		}
	}

	if page < 1 {
		page = 1
	}
	return &EventListResponse{Events: responses, Total: total, Page: page, Size: DefaultPageSize}, nil
}

func (s *eventService) Update(ctx context.Context, id uint, req *UpdateEventRequest, userID uint) (*EventResponse, error) {
	s.logger.Info("Updating event", "event_id", id, "user_id", userID)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Event().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionEdit)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(existing.Authors) {
		return nil, NewPermissionError(userID, "event", "edit", "result is outside the user's edit scope")
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

	event := &models.Event{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Date:        date,
		Description: req.Description,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Event().Update(ctx, event); err != nil {
			return err
		}
		return txRepo.Event().ReplaceAuthors(ctx, event, authors)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.publishResult(ctx, events.TypeResultUpdated, id, userID)
	s.logger.Info("Event updated", "event_id", id, "user_id", userID)

	return s.respond(ctx, actor, id)
}

func (s *eventService) Delete(ctx context.Context, id uint, userID uint) (DeleteOutcome, error) {
	s.logger.Info("Deleting event", "event_id", id, "user_id", userID)

	actor, err := s.policy.actor(ctx, userID)
	if err != nil {
		return "", err
	}

	existing, err := s.repo.Event().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "", ErrEventNotFound
		}
		return "", fmt.Errorf("failed to get event: %w", err)
	}

	scope, err := s.policy.scopeFor(ctx, actor, authz.ActionDelete)
	if err != nil {
		return "", err
	}
	if !scope.Allows(existing.Authors) {
		return "", NewPermissionError(userID, "event", "delete", "result is outside the user's delete scope")
	}

	if scope.Kind == authz.ScopeOwn {
		count, err := s.repo.Event().CountAuthors(ctx, id)
		if err != nil {
			return "", err
		}
		if count > 1 {
			if err := s.repo.Event().RemoveAuthor(ctx, id, actor.ID); err != nil {
				return "", err
			}
			s.publishResult(ctx, events.TypeResultDetached, id, userID)
			s.logger.Info("Event authorship detached", "event_id", id, "user_id", userID)
			return OutcomeDetached, nil
		}
	}

	if err := s.repo.Event().Delete(ctx, id); err != nil {
		return "", fmt.Errorf("failed to delete event: %w", err)
	}

	s.publishResult(ctx, events.TypeResultDeleted, id, userID)
	s.logger.Info("Event deleted", "event_id", id, "user_id", userID)
	return OutcomeDeleted, nil
}

func (s *eventService) respond(ctx context.Context, actor *models.User, id uint) (*EventResponse, error) {
	event, err := s.repo.Event().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload event: %w", err)
	}
	canEdit, canDelete, err := s.policy.flags(ctx, actor, event.Authors)
	if err != nil {
		return nil, err
	}
	return &EventResponse{Event: event, CanEdit: canEdit, CanDelete: canDelete}, nil
}

func (s *eventService) publishResult(ctx context.Context, eventType string, id, actorID uint) {
	err := s.publisher.Publish(ctx, &events.Event{
		Type: eventType,
		Data: events.ResultEventData{Resource: "event", ResultID: id, ActorID: actorID},
	})
	if err != nil {
		s.logger.Warn("Failed to publish event notification",
			"event_type", eventType, "event_id", id, "error", err)
	}
}

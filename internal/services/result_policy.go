package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/result-academic/records-service/internal/authz"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
	"github.com/result-academic/records-service/internal/validator"
)

// resultPolicy bundles the authorization steps shared by all result services.
type resultPolicy struct {
	repo     repositories.Repository
	resolver *authz.Resolver
}

func newResultPolicy(repo repositories.Repository, resolver *authz.Resolver) *resultPolicy {
	return &resultPolicy{repo: repo, resolver: resolver}
}

// actor loads the acting user and rejects disabled accounts.
func (p *resultPolicy) actor(ctx context.Context, userID uint) (*models.User, error) {
	user, err := p.repo.User().GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load acting user: %w", err)
	}
	if !user.IsEnabled {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// permissions resolves the acting user's normalized permission set.
func (p *resultPolicy) permissions(ctx context.Context, user *models.User) (authz.PermissionSet, error) {
	return p.resolver.PermissionsFor(ctx, user)
}

// scopeFor resolves the acting user's scope for an action family.
func (p *resultPolicy) scopeFor(ctx context.Context, user *models.User, action authz.Action) (authz.Scope, error) {
	perms, err := p.permissions(ctx, user)
	if err != nil {
		return authz.Scope{}, err
	}
	return authz.ResolveScope(perms, action, user), nil
}

// requireCreate checks the create_result permission, which gates creation of
// every result kind independently of the view and edit tiers.
func (p *resultPolicy) requireCreate(ctx context.Context, user *models.User, resource string) error {
	perms, err := p.permissions(ctx, user)
	if err != nil {
		return err
	}
	if !perms.Has(authz.PermCreateResult) {
		return NewPermissionError(user.ID, resource, "create", "missing create_result permission")
	}
	return nil
}

// flags computes the can_edit and can_delete response flags for a result with
// the given author set.
func (p *resultPolicy) flags(ctx context.Context, user *models.User, authors []models.User) (canEdit, canDelete bool, err error) {
	perms, err := p.permissions(ctx, user)
	if err != nil {
		return false, false, err
	}
	editScope := authz.ResolveScope(perms, authz.ActionEdit, user)
	deleteScope := authz.ResolveScope(perms, authz.ActionDelete, user)
	return editScope.Allows(authors), deleteScope.Allows(authors), nil
}

// resolveAuthors deduplicates the requested author IDs, verifies each exists
// and unconditionally includes the acting user.
func (p *resultPolicy) resolveAuthors(ctx context.Context, ids []validator.FlexibleID, actingUser *models.User) ([]models.User, error) {
	seen := map[uint]struct{}{actingUser.ID: {}}
	unique := []uint{actingUser.ID}
	for _, id := range validator.UintSlice(ids) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := p.repo.User().GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}
	if len(users) != len(unique) {
		found := make(map[uint]struct{}, len(users))
		for _, u := range users {
			found[u.ID] = struct{}{}
		}
		var errs ValidationErrors
		for _, id := range unique {
			if _, ok := found[id]; !ok {
				errs = append(errs, ValidationError{
					Field:   "authors",
					Message: fmt.Sprintf("user %d does not exist", id),
					Value:   id,
					Rule:    "author_exists",
				})
			}
		}
		return nil, errs
	}

	authors := make([]models.User, len(users))
	for i, u := range users {
		authors[i] = *u
	}
	return authors, nil
}

// parseResultDate converts the wire date into the storage type. Callers run
// struct validation first, so a failure here is unexpected input.
func parseResultDate(value string) (datatypes.Date, error) {
	t, err := time.Parse(validator.DateFormat, value)
	if err != nil {
		return datatypes.Date{}, ValidationErrors{{
			Field:   "date",
			Message: "must be a date in YYYY-MM-DD format",
			Value:   value,
			Rule:    "result_date",
		}}
	}
	return datatypes.Date(t), nil
}

// parseOptionalResultDate parses a date that may be omitted from the request.
func parseOptionalResultDate(value string) (*datatypes.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := parseResultDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// listFilters builds scoped pagination filters for a one-based page number.
func listFilters(scope authz.Scope, page int) repositories.ResultFilters {
	if page < 1 {
		page = 1
	}
	return repositories.ResultFilters{
		Scope:  scope,
		Limit:  DefaultPageSize,
		Offset: (page - 1) * DefaultPageSize,
	}
}

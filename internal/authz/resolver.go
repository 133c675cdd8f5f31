package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/result-academic/records-service/internal/cache"
	"github.com/result-academic/records-service/internal/models"
)

// PermissionCacheTTL bounds staleness when invalidation is missed; explicit
// invalidation on role changes is the primary mechanism.
const PermissionCacheTTL = 10 * time.Minute

// PermissionSource loads the permission names granted to a role.
type PermissionSource interface {
	PermissionNames(ctx context.Context, roleID uint) ([]string, error)
}

// Resolver resolves the permission set of a user's role, caching per role in
// redis. Role mutations must call InvalidateRole so permission changes take
// effect without restart.
type Resolver struct {
	source PermissionSource
	cache  *cache.CacheHelper
	logger *slog.Logger
}

func NewResolver(source PermissionSource, cacheHelper *cache.CacheHelper, logger *slog.Logger) *Resolver {
	return &Resolver{
		source: source,
		cache:  cacheHelper,
		logger: logger,
	}
}

func roleCacheKey(roleID uint) string {
	return fmt.Sprintf("role:%d:permissions", roleID)
}

// PermissionsFor returns the normalized permission set of the user's role.
func (r *Resolver) PermissionsFor(ctx context.Context, user *models.User) (PermissionSet, error) {
	if user == nil {
		return nil, errors.New("authz: nil user")
	}

	key := roleCacheKey(user.RoleID)

	var cached []string
	if err := r.cache.Get(ctx, key, &cached); err == nil {
		return NewPermissionSet(cached), nil
	} else if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable) {
		r.logger.Warn("permission cache read failed, falling back to store",
			"role_id", user.RoleID, "error", err)
	}

	names, err := r.source.PermissionNames(ctx, user.RoleID)
	if err != nil {
		return nil, fmt.Errorf("resolve permissions for role %d: %w", user.RoleID, err)
	}

	if err := r.cache.Set(ctx, key, names, PermissionCacheTTL); err != nil {
		r.logger.Warn("permission cache write failed", "role_id", user.RoleID, "error", err)
	}

	return NewPermissionSet(names), nil
}

// InvalidateRole drops the cached permission set for one role.
func (r *Resolver) InvalidateRole(ctx context.Context, roleID uint) error {
	return r.cache.Delete(ctx, roleCacheKey(roleID))
}

// InvalidateAll drops every cached permission set. Used when the vocabulary
// itself changes.
func (r *Resolver) InvalidateAll(ctx context.Context) error {
	return r.cache.InvalidatePattern(ctx, "role:*")
}

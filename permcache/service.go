package permcache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/pkg/async"
	"github.com/dmitrymomot/authcore/pkg/logger"
)

// Service implements the Permission/Role Cache.
type Service struct {
	store       Store
	cache       Cache
	invalidator AuthContextInvalidator
	queue       Enqueuer // optional; nil fans InvalidateRole out concurrently instead
	log         *slog.Logger
}

// Option configures optional Service behavior.
type Option func(*Service)

// WithInvalidationQueue makes InvalidateRole enqueue one invalidationJob per
// affected user via q rather than invalidating them directly. Pair with a
// queue.Worker registered with NewInvalidationHandler to process them.
func WithInvalidationQueue(q Enqueuer) Option {
	return func(s *Service) { s.queue = q }
}

// New constructs a Service. invalidator may be nil.
func New(store Store, cache Cache, invalidator AuthContextInvalidator, log *slog.Logger, opts ...Option) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{store: store, cache: cache, invalidator: invalidator, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// permissions returns the cached-or-loaded flat permission list for
// (userID, tenantID), populating the cache on miss.
func (s *Service) permissions(ctx context.Context, userID ids.ID, tenantID *ids.ID) ([]Permission, error) {
	scope := scopeKey(tenantID)

	if perms, ok := s.cache.GetPermissions(ctx, userID, scope); ok {
		return perms, nil
	}

	perms, err := s.store.LoadUserPermissions(ctx, userID, tenantID)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}

	s.cache.SetPermissions(ctx, userID, scope, perms)
	return perms, nil
}

// CheckPermission reports whether userID holds permissionCode, matched by
// exact code or the wildcard rules of §4.E.
func (s *Service) CheckPermission(ctx context.Context, userID ids.ID, permissionCode string, tenantID *ids.ID) (bool, error) {
	perms, err := s.permissions(ctx, userID, tenantID)
	if err != nil {
		return false, err
	}
	return buildSummary(perms).matches(permissionCode), nil
}

// CheckPermissions reports whether userID holds every (requireAll=true) or
// any (requireAll=false) of permissionCodes.
func (s *Service) CheckPermissions(ctx context.Context, userID ids.ID, permissionCodes []string, tenantID *ids.ID, requireAll bool) (bool, error) {
	perms, err := s.permissions(ctx, userID, tenantID)
	if err != nil {
		return false, err
	}
	sum := buildSummary(perms)

	if requireAll {
		for _, code := range permissionCodes {
			if !sum.matches(code) {
				return false, nil
			}
		}
		return true, nil
	}

	for _, code := range permissionCodes {
		if sum.matches(code) {
			return true, nil
		}
	}
	return false, nil
}

// CheckAnyPermission reports whether userID holds any of permissionCodes.
func (s *Service) CheckAnyPermission(ctx context.Context, userID ids.ID, permissionCodes []string, tenantID *ids.ID) (bool, error) {
	return s.CheckPermissions(ctx, userID, permissionCodes, tenantID, false)
}

// GetUserPermissions returns the flat, cache-then-store permission list.
func (s *Service) GetUserPermissions(ctx context.Context, userID ids.ID, tenantID *ids.ID) ([]Permission, error) {
	return s.permissions(ctx, userID, tenantID)
}

// GetUserRoles returns the cache-then-store role list for (userID, tenantID).
func (s *Service) GetUserRoles(ctx context.Context, userID ids.ID, tenantID *ids.ID) ([]Role, error) {
	scope := scopeKey(tenantID)

	if roles, ok := s.cache.GetRoles(ctx, userID, scope); ok {
		return roles, nil
	}

	roles, err := s.store.LoadUserRoles(ctx, userID, tenantID)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}

	s.cache.SetRoles(ctx, userID, scope, roles)
	return roles, nil
}

// InvalidateUser drops every cached key for (userID, tenantID) and any
// cached AuthContext snapshot for that user.
func (s *Service) InvalidateUser(ctx context.Context, userID ids.ID, tenantID *ids.ID) {
	s.invalidateUserInline(ctx, userID, tenantID)
}

// invalidateUserInline does the actual cache-drop work, run either directly
// by InvalidateUser, concurrently by InvalidateRole's fan-out, or by the
// queue.Handler NewInvalidationHandler returns.
func (s *Service) invalidateUserInline(ctx context.Context, userID ids.ID, tenantID *ids.ID) {
	s.cache.DeleteUser(ctx, userID, scopeKey(tenantID))
	if s.invalidator != nil {
		s.invalidator.InvalidateAuthContext(ctx, userID, tenantID)
	}
}

// InvalidateRole invalidates every user currently holding roleCode in the
// given scope. Role-table writes must always precede this call. When
// configured with WithInvalidationQueue, each affected user's invalidation
// is enqueued as its own job rather than run on this call's goroutine; an
// overloaded cache substrate then slows the queue's workers, not the
// request that triggered the role change. Without a queue, the fan-out
// still runs concurrently via pkg/async, one Future per affected user.
func (s *Service) InvalidateRole(ctx context.Context, roleCode string, tenantID *ids.ID) error {
	userIDs, err := s.store.UsersWithRole(ctx, roleCode, tenantID)
	if err != nil {
		return errors.Join(ErrStorageFailure, err)
	}

	if s.queue != nil {
		for _, userID := range userIDs {
			job := invalidationJob{UserID: userID, TenantID: tenantID}
			if err := s.queue.Enqueue(ctx, job); err != nil {
				return errors.Join(ErrStorageFailure, err)
			}
		}
	} else {
		futures := make([]*async.Future[struct{}], len(userIDs))
		for i, userID := range userIDs {
			futures[i] = async.Async(ctx, userID, func(ctx context.Context, userID ids.ID) (struct{}, error) {
				s.invalidateUserInline(ctx, userID, tenantID)
				return struct{}{}, nil
			})
		}
		if _, err := async.WaitAll(futures...); err != nil {
			return err
		}
	}

	s.log.DebugContext(ctx, "invalidated role",
		logger.Event("permcache.invalidate_role"),
		slog.String("role_code", roleCode),
		slog.Int("affected_users", len(userIDs)),
		slog.Bool("queued", s.queue != nil))

	return nil
}

// WarmUser forces a fresh load of permissions and roles into the cache,
// bypassing any existing cached entry.
func (s *Service) WarmUser(ctx context.Context, userID ids.ID, tenantID *ids.ID) error {
	scope := scopeKey(tenantID)

	perms, err := s.store.LoadUserPermissions(ctx, userID, tenantID)
	if err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	s.cache.SetPermissions(ctx, userID, scope, perms)

	roles, err := s.store.LoadUserRoles(ctx, userID, tenantID)
	if err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	s.cache.SetRoles(ctx, userID, scope, roles)

	return nil
}

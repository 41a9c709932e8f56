package identitymap

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/authcore/internal/apperr"
	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/pkg/sanitizer"
)

const defaultMappingCacheTTL = 30 * time.Minute

const maxProfileFieldLength = 256

// Options configures the Service.
type Options struct {
	// CacheAdapter does not read this field; it caches mappings for a
	// fixed 30 minutes.
	MappingCacheTTL time.Duration // user-mapping.cache.ttl, default 1800s
}

// Service implements the User Identity Mapper.
type Service struct {
	store Store
	cache Cache
	opts  Options
}

// New constructs a Service.
func New(store Store, cache Cache, opts Options) *Service {
	if opts.MappingCacheTTL <= 0 {
		opts.MappingCacheTTL = defaultMappingCacheTTL
	}
	return &Service{store: store, cache: cache, opts: opts}
}

func mappingCacheKey(tenantID *ids.ID, provider, subjectID string) string {
	scope := "platform"
	if tenantID != nil {
		scope = tenantID.String()
	}
	return "user-mapping:" + scope + ":" + provider + ":" + subjectID
}

// MapExternalToInternal resolves an external subject to an internal user id,
// provisioning a new row on first sight when claims are supplied.
func (s *Service) MapExternalToInternal(ctx context.Context, provider, subjectID string, tenantID *ids.ID, claims *Claims) (ids.ID, error) {
	key := mappingCacheKey(tenantID, provider, subjectID)

	if u, ok := s.cache.Get(ctx, key); ok {
		return u.ID, nil
	}

	u, err := s.store.GetByExternalID(ctx, provider, subjectID)
	if err == nil {
		s.cache.Set(ctx, key, u)
		return u.ID, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return ids.Nil, errors.Join(ErrStorageFailure, err)
	}

	if claims == nil {
		return ids.Nil, ErrNotFound
	}

	newUser := User{
		ID:                ids.New(),
		ExternalProvider:  provider,
		ExternalSubjectID: subjectID,
		TenantID:          tenantID,
		IsActive:          true,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	applyClaims(&newUser, *claims)

	if err := s.store.Insert(ctx, newUser); err != nil {
		if errors.Is(err, apperr.ErrUserConflict) {
			return ids.Nil, ErrConflict
		}
		return ids.Nil, errors.Join(ErrMappingFailure, err)
	}

	s.cache.Set(ctx, key, newUser)
	return newUser.ID, nil
}

// GetByInternalId loads a user row by its internal id, cache-first.
func (s *Service) GetByInternalId(ctx context.Context, id ids.ID) (User, error) {
	key := "user-id:" + id.String()

	if u, ok := s.cache.Get(ctx, key); ok {
		return u, nil
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, errors.Join(ErrStorageFailure, err)
	}

	s.cache.Set(ctx, key, u)
	return u, nil
}

// UpsertFromClaims overwrites profile fields from token claims on every
// login, keyed by the external id.
func (s *Service) UpsertFromClaims(ctx context.Context, provider, subjectID string, tenantID *ids.ID, claims Claims) (User, error) {
	u, err := s.store.GetByExternalID(ctx, provider, subjectID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return User{}, errors.Join(ErrStorageFailure, err)
		}
		u = User{
			ID:                ids.New(),
			ExternalProvider:  provider,
			ExternalSubjectID: subjectID,
			TenantID:          tenantID,
			IsActive:          true,
			CreatedAt:         time.Now(),
		}
		applyClaims(&u, claims)
		if err := s.store.Insert(ctx, u); err != nil {
			if errors.Is(err, apperr.ErrUserConflict) {
				return User{}, ErrConflict
			}
			return User{}, errors.Join(ErrMappingFailure, err)
		}
	} else {
		applyClaims(&u, claims)
		u.UpdatedAt = time.Now()
		if err := s.store.UpdateProfile(ctx, u.ID, u); err != nil {
			if errors.Is(err, apperr.ErrUserConflict) {
				return User{}, ErrConflict
			}
			return User{}, errors.Join(ErrMappingFailure, err)
		}
	}

	now := time.Now()
	u.LastLoginAt = &now

	s.cache.Set(ctx, mappingCacheKey(tenantID, provider, subjectID), u)
	s.cache.Set(ctx, "user-id:"+u.ID.String(), u)

	return u, nil
}

// SetMetadata overwrites a user's metadata blob directly, for callers (e.g.
// svc/credentials's TOTP enrollment) that store credential-adjacent state
// outside the token-claims profile-sync path of UpsertFromClaims.
func (s *Service) SetMetadata(ctx context.Context, id ids.ID, metadata map[string]any) error {
	if err := s.store.UpdateMetadata(ctx, id, metadata); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrNotFound
		}
		return errors.Join(ErrStorageFailure, err)
	}
	s.cache.Delete(ctx, "user-id:"+id.String())
	return nil
}

// InvalidateMapping drops every cached entry for a user, identified by
// either its internal id or its external subject.
func (s *Service) InvalidateMapping(ctx context.Context, internalID *ids.ID, provider, subjectID string, tenantID *ids.ID) {
	if internalID != nil {
		s.cache.Delete(ctx, "user-id:"+internalID.String())
	}
	if subjectID != "" {
		s.cache.Delete(ctx, mappingCacheKey(tenantID, provider, subjectID))
	}
}

// applyClaims sanitizes and copies claim-derived profile fields onto u.
func applyClaims(u *User, claims Claims) {
	u.Email = sanitizer.LimitLength(sanitizer.NormalizeEmail(claims.Email), maxProfileFieldLength)
	u.Username = sanitizer.LimitLength(sanitizer.Trim(claims.Username), maxProfileFieldLength)
	u.FirstName = sanitizer.LimitLength(sanitizer.SanitizeUserInput(claims.FirstName), maxProfileFieldLength)
	u.LastName = sanitizer.LimitLength(sanitizer.SanitizeUserInput(claims.LastName), maxProfileFieldLength)
	u.DisplayName = sanitizer.LimitLength(sanitizer.SanitizeUserInput(claims.DisplayName), maxProfileFieldLength)
	if claims.Metadata != nil {
		u.Metadata = claims.Metadata
	}
}

package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/authcore/identitymap"
	"github.com/dmitrymomot/authcore/internal/apperr"
	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/pkg/scopes"
	"github.com/dmitrymomot/authcore/tokenvalidator"
)

const defaultAuthContextCacheTTL = 300 * time.Second

// Options configures the Pipeline.
type Options struct {
	AuthContextCacheTTL time.Duration // token-cache-ttl, default 300s
	Tenant              TenantOptions
}

// Pipeline implements the protected-endpoint request pipeline of §4.F.
type Pipeline struct {
	realms RealmSource
	tokens Validator
	mapper Mapper
	perms  PermissionChecker
	cache  Cache // optional
	log    *slog.Logger
	opts   Options
}

// New constructs a Pipeline. cache may be nil, disabling the AuthContext
// cache (every request re-runs validation, mapping, and permission checks).
func New(realms RealmSource, tokens Validator, mapper Mapper, perms PermissionChecker, cache Cache, log *slog.Logger, opts Options) *Pipeline {
	if opts.AuthContextCacheTTL <= 0 {
		opts.AuthContextCacheTTL = defaultAuthContextCacheTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{realms: realms, tokens: tokens, mapper: mapper, perms: perms, cache: cache, log: log, opts: opts}
}

func authTokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// Authenticate runs the seven-step protected-endpoint pipeline of §4.F and
// returns the assembled AuthContext. Every remote call inherits r's context
// deadline; cancellation aborts in-flight provider/DB/cache calls with no
// partial mutation.
func (p *Pipeline) Authenticate(r *http.Request, opts ProtectedOptions) (AuthContext, error) {
	ctx := r.Context()

	// Step 1: tenant extraction.
	tenantID, err := resolveTenantID(r, p.opts.Tenant)
	if err != nil {
		return AuthContext{}, err
	}
	if tenantID.IsNil() && opts.RequireTenant {
		return AuthContext{}, ErrMissingTenant
	}

	// Step 2: bearer extraction.
	token := extractBearer(r)
	if token == "" {
		return AuthContext{}, ErrUnauthenticated
	}

	hash := authTokenHash(token)
	if p.cache != nil && !opts.Critical {
		if cached, ok := p.cache.GetAuthContext(ctx, hash); ok {
			if err := p.enforcePermissions(ctx, cached.InternalUserID, cached.TenantID, opts); err != nil {
				return AuthContext{}, err
			}
			return cached, nil
		}
	}

	var tenantIDPtr *ids.ID
	if !tenantID.IsNil() {
		tenantIDPtr = &tenantID
	}

	// Step 3: realm resolution.
	cfg, err := p.realms.GetRealmByTenant(ctx, tenantID)
	if err != nil {
		return AuthContext{}, err
	}

	// Step 4: token validation.
	strategy := tokenvalidator.StrategySmartFallback
	if opts.Critical {
		strategy = tokenvalidator.StrategyIntrospection
	}
	tv, err := p.tokens.Validate(ctx, token, cfg.ID, strategy)
	if err != nil {
		return AuthContext{}, err
	}

	// Step 5: identity mapping.
	claims := &identitymap.Claims{
		Subject:     tv.Subject,
		Email:       tv.Email,
		Username:    tv.PreferredUsername,
		FirstName:   tv.GivenName,
		LastName:    tv.FamilyName,
		DisplayName: tv.Name,
	}
	internalID, err := p.mapper.MapExternalToInternal(ctx, ExternalProvider, tv.Subject, tenantIDPtr, claims)
	if err != nil {
		return AuthContext{}, errors.Join(apperr.ErrUserMappingFailure, err)
	}
	user, err := p.mapper.GetByInternalId(ctx, internalID)
	if err != nil {
		return AuthContext{}, errors.Join(apperr.ErrUserMappingFailure, err)
	}
	if !user.IsActive {
		return AuthContext{}, ErrUserDisabled
	}

	// Component E: the effective permission set for (user, tenant), not
	// the token's own optional (and possibly stale) permissions claim.
	perms, err := p.perms.GetUserPermissions(ctx, internalID, tenantIDPtr)
	if err != nil {
		return AuthContext{}, err
	}
	permCodes := make([]string, len(perms))
	for i, perm := range perms {
		permCodes[i] = perm.Code
	}

	ac := AuthContext{
		Subject:          tv.Subject,
		InternalUserID:   internalID,
		TenantID:         tenantIDPtr,
		RealmID:          cfg.ID,
		Email:            user.Email,
		Username:         user.Username,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		DisplayName:      user.DisplayName,
		IsActive:         user.IsActive,
		IsSuperadmin:     user.IsSuperadmin,
		RealmRoles:       tv.RealmRoles,
		ClientRoles:      tv.ClientRoles,
		Permissions:      permCodes,
		SessionID:        tv.SessionState,
		Scopes:           scopes.ParseScopes(tv.Scope),
		RawClaims:        tv.RawClaims,
		Metadata:         user.Metadata,
		ValidationMethod: tv.ValidationMethod,
		IssuedAt:         tv.IssuedAt,
		ExpiresAt:        tv.ExpiresAt,
	}

	// Step 6: permission enforcement.
	if err := p.enforcePermissions(ctx, internalID, tenantIDPtr, opts); err != nil {
		return AuthContext{}, err
	}

	// Step 7: cache the assembled AuthContext for the remainder of the
	// token's validity, bounded by token-cache-ttl.
	if p.cache != nil {
		ttl := int64(p.opts.AuthContextCacheTTL.Seconds())
		if remaining := int64(time.Until(ac.ExpiresAt).Seconds()); remaining > 0 && remaining < ttl {
			ttl = remaining
		}
		if ttl > 0 {
			p.cache.SetAuthContext(ctx, hash, ac, ttl)
		}
	}

	return ac, nil
}

// enforcePermissions checks opts.RequiredPermissions, a no-op when empty.
func (p *Pipeline) enforcePermissions(ctx context.Context, userID ids.ID, tenantID *ids.ID, opts ProtectedOptions) error {
	if len(opts.RequiredPermissions) == 0 {
		return nil
	}
	ok, err := p.perms.CheckPermissions(ctx, userID, opts.RequiredPermissions, tenantID, opts.RequireAll)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

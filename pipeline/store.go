package pipeline

import (
	"context"

	"github.com/dmitrymomot/authcore/identitymap"
	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/permcache"
	"github.com/dmitrymomot/authcore/realm"
	"github.com/dmitrymomot/authcore/tokenvalidator"
)

// RealmSource is the subset of realm.Service the pipeline depends on to
// resolve a tenant's realm configuration.
type RealmSource interface {
	GetRealmByTenant(ctx context.Context, tenantID ids.ID) (realm.Config, error)
}

// Validator is the subset of tokenvalidator.Service the pipeline drives.
type Validator interface {
	Validate(ctx context.Context, token string, realmID ids.ID, strategy tokenvalidator.Strategy) (tokenvalidator.AuthContext, error)
}

// Mapper is the subset of identitymap.Service the pipeline drives to turn a
// validated token's subject into an internal user record.
type Mapper interface {
	MapExternalToInternal(ctx context.Context, provider, subjectID string, tenantID *ids.ID, claims *identitymap.Claims) (ids.ID, error)
	GetByInternalId(ctx context.Context, id ids.ID) (identitymap.User, error)
}

// PermissionChecker is the subset of permcache.Service the pipeline drives
// for endpoint permission enforcement and for populating AuthContext with
// the effective permission set component E computed for (user, tenant).
type PermissionChecker interface {
	CheckPermissions(ctx context.Context, userID ids.ID, permissionCodes []string, tenantID *ids.ID, requireAll bool) (bool, error)
	GetUserPermissions(ctx context.Context, userID ids.ID, tenantID *ids.ID) ([]permcache.Permission, error)
}

// Cache holds the pipeline-level AuthContext cache, keyed by token hash,
// distinct from tokenvalidator's own introspection cache: this cache stores
// the fully-assembled AuthContext (post identity-mapping and permission
// check), bounded by token-cache-ttl.
type Cache interface {
	GetAuthContext(ctx context.Context, tokenHash string) (AuthContext, bool)
	SetAuthContext(ctx context.Context, tokenHash string, ac AuthContext, ttl int64)
}

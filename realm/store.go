package realm

import (
	"context"

	"github.com/dmitrymomot/authcore/internal/ids"
)

// Store is the persistence contract for realm configurations, backed by the
// `realms` table. Implementations live under store/postgres.
type Store interface {
	GetByTenantID(ctx context.Context, tenantID ids.ID) (Config, error)
	GetByID(ctx context.Context, id ids.ID) (Config, error)
	GetByProviderAndName(ctx context.Context, providerServerURL, realmName string) (Config, error)
	Insert(ctx context.Context, cfg Config) error
	Update(ctx context.Context, id ids.ID, params UpdateParams) (Config, error)
	UpdateStatus(ctx context.Context, id ids.ID, status Status) error
	List(ctx context.Context) ([]Config, error)
}

// Cache caches realm configs and signing keys so GetRealmByTenant and the
// public-key retrieval path rarely hit the database or the provider.
type Cache interface {
	GetConfig(ctx context.Context, key string) (Config, bool)
	SetConfig(ctx context.Context, key string, cfg Config)
	DeleteConfig(ctx context.Context, key string)

	GetSigningKey(ctx context.Context, realmID ids.ID) (SigningKey, bool)
	SetSigningKey(ctx context.Context, realmID ids.ID, key SigningKey)
}

// Provider is the subset of the Identity-Provider Client (package idp) that
// the Realm Registry drives directly: realm/client provisioning during
// CreateTenantRealm, and JWKS retrieval for the public-key path.
type Provider interface {
	CreateRealm(ctx context.Context, cfg Config) error
	DeleteRealm(ctx context.Context, providerServerURL, realmName string) error
	CreateDefaultClient(ctx context.Context, cfg Config) error
	FetchJWKS(ctx context.Context, cfg Config) ([]SigningKey, error)
}

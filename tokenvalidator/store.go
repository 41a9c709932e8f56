package tokenvalidator

import (
	"context"

	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/realm"
)

// RealmSource is the subset of realm.Service the validator depends on,
// expressed as an interface so tests can substitute a fake without
// constructing a full realm.Service.
type RealmSource interface {
	GetRealmById(ctx context.Context, realmID ids.ID) (realm.Config, error)
	SigningKey(ctx context.Context, realmID ids.ID) (realm.SigningKey, error)
	OpenClientSecret(ctx context.Context, cfg realm.Config) (string, error)
}

// IntrospectionClient calls a realm's provider-side introspection endpoint,
// authenticating as cfg's client using its already-unsealed clientSecret.
type IntrospectionClient interface {
	Introspect(ctx context.Context, cfg realm.Config, clientSecret, token string) (IntrospectionResult, error)
}

// IntrospectionResult is the provider's introspection response, trimmed to
// the fields the validator consumes.
type IntrospectionResult struct {
	Active  bool
	Subject string
	Scope   string
	Exp     int64
}

// Cache holds the introspection-response cache (keyed "introspect:<hash>")
// and the revoked-token cache (keyed "revoked:<hash>"), both namespaced
// under component A's shared cache substrate.
type Cache interface {
	GetIntrospection(ctx context.Context, tokenHash string) (IntrospectionResult, bool)
	SetIntrospection(ctx context.Context, tokenHash string, result IntrospectionResult)

	IsRevoked(ctx context.Context, tokenHash string) bool
	Revoke(ctx context.Context, tokenHash string, ttlSeconds int64)
}

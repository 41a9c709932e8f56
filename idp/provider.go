package idp

import (
	"context"

	"github.com/dmitrymomot/authcore/realm"
)

// RealmProvider adapts Client to the narrow realm.Provider contract the
// Realm Registry drives directly, resolving (and caching) the RealmAdapter
// for each realm.Config it is handed.
type RealmProvider struct {
	client *Client
}

// NewRealmProvider wraps client as a realm.Provider.
func NewRealmProvider(client *Client) *RealmProvider {
	return &RealmProvider{client: client}
}

// adapterFor resolves the cached adapter for cfg. It never passes
// cfg.ClientSecretRef (sealed ciphertext, not a usable client secret): realm
// provisioning and default-client creation need no client secret, since
// confidential-client secrets are generated provider-side.
func (p *RealmProvider) adapterFor(cfg realm.Config) *RealmAdapter {
	return p.client.RealmAdapterFor(cfg.ID, cfg.ProviderServerURL, cfg.RealmName, cfg.ClientID, "")
}

// CreateRealm provisions cfg's realm at the provider.
func (p *RealmProvider) CreateRealm(ctx context.Context, cfg realm.Config) error {
	return p.adapterFor(cfg).CreateRealm(ctx, cfg)
}

// DeleteRealm removes realmName at the provider, used for best-effort
// rollback when provisioning fails partway through.
func (p *RealmProvider) DeleteRealm(ctx context.Context, providerServerURL, realmName string) error {
	// The realm being rolled back was never cached under its own id at
	// this point in the flow, so a throwaway adapter is built directly
	// rather than resolved through the cache.
	adapter := &RealmAdapter{client: p.client, baseURL: normalizeURL(providerServerURL), realmName: realmName}
	return adapter.DeleteRealm(ctx, realmName)
}

// CreateDefaultClient creates cfg's primary OIDC client at the provider.
func (p *RealmProvider) CreateDefaultClient(ctx context.Context, cfg realm.Config) error {
	return p.adapterFor(cfg).CreateDefaultClient(ctx, cfg)
}

// FetchJWKS retrieves and PEM-encodes cfg's realm signing keys.
func (p *RealmProvider) FetchJWKS(ctx context.Context, cfg realm.Config) ([]realm.SigningKey, error) {
	return p.adapterFor(cfg).fetchJWKS(ctx)
}

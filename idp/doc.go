// Package idp implements the Identity-Provider Client: a per-realm OIDC and
// admin-API client against an external Keycloak-compatible provider.
//
// Client owns one pooled *http.Client and a cache of per-realm adapters
// keyed by realm id (construction is idempotent under concurrency and needs
// no locking). Each RealmAdapter exposes the OIDC surface (password grant,
// refresh, logout, userinfo, introspection, JWKS) and the admin surface
// (realm/client/user CRUD) for a single realm.
//
//	client := idp.NewClient(idp.ClientConfig{
//		AdminAuthStrategy: idp.AdminAuthMasterRealm,
//		AdminUsername:     "admin",
//		AdminPassword:     os.Getenv("PROVIDER_ADMIN_PASSWORD"),
//	})
//	adapter := client.RealmAdapterFor(realmID, "https://idp.example.com", "acme", "web", "")
//	bundle, err := adapter.Authenticate(ctx, "jane", "s3cr3t")
//
// RealmProvider, ValidatorIntrospection, and CredentialsProvider adapt
// Client to the narrow realm.Provider, tokenvalidator.IntrospectionClient,
// and credentials.Provider contracts those packages depend on, so none of
// them imports idp directly.
package idp

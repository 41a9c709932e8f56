// Package realm implements the Realm Registry: it maps tenants to their
// identity-provider realm configuration, persists that mapping, and caches
// lookups so the request pipeline rarely touches the database.
//
// A realm pairs a tenant with an external identity-provider realm: the
// provider server URL, the OIDC client used to authenticate that tenant's
// users, and the token-validation rules (signing algorithm allow-list,
// expected audience/issuer, clock-check flags) applied to tokens issued
// within it. One additional realm — the platform realm — has no tenant and
// is registered in-memory only, never persisted.
//
// # Usage
//
//	svc := realm.New(pgStore, redisCache, idpAdapter, flags, log, realm.Options{
//		AppKey: appKey,
//	})
//
//	cfg, err := svc.GetRealmByTenant(ctx, tenantID)
//	if err != nil {
//		// ErrNotConfigured, ErrStorageFailure, ...
//	}
package realm

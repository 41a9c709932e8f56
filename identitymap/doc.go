// Package identitymap maps external identity-provider subjects onto stable
// internal user identities and keeps their profile fields synced with the
// claims asserted by the provider on every login.
//
// A mapping is keyed by (external provider, external subject id) and,
// for tenant-scoped realms, additionally scoped by tenant. The first
// successful token validation for a given subject provisions the row;
// every subsequent login overwrites the profile fields (first name, last
// name, display name, metadata) from the incoming claims via UpsertFromClaims,
// so the internal record never drifts far from what the identity provider
// reports.
//
//	svc := identitymap.New(pgStore, redisCache, identitymap.Options{})
//	user, err := svc.UpsertFromClaims(ctx, "keycloak", claims.Subject, tenantID, claims)
package identitymap

// Package tokenvalidator authenticates bearer tokens issued by a realm's
// identity provider, producing an immutable AuthContext snapshot of the
// caller's identity, roles, and claims.
//
// Three strategies are available: StrategyLocal verifies the signature
// against the realm's cached public key with no network call;
// StrategyIntrospection calls the provider's introspection endpoint and
// caches the result; StrategySmartFallback tries local first and falls
// back to introspection on any non-expiry failure. Revoked tokens fail
// regardless of strategy, checked by token hash against a shared cache.
package tokenvalidator

package tokenvalidator

import "github.com/dmitrymomot/authcore/internal/apperr"

var (
	// ErrInvalidToken covers malformed tokens, signature failures, and
	// algorithm mismatches. Revoked tokens return ErrTokenRevoked.
	ErrInvalidToken = apperr.ErrInvalidToken

	// ErrTokenExpired is returned when exp has passed; distinguished from
	// ErrInvalidToken because smart-fallback does not retry on expiry.
	ErrTokenExpired = apperr.ErrTokenExpired

	// ErrTokenRevoked is returned when the token's hash is present in the
	// revocation cache, regardless of strategy.
	ErrTokenRevoked = apperr.ErrTokenRevoked

	// ErrPublicKeyUnavailable is returned when local validation cannot fetch
	// a usable signing key for the realm.
	ErrPublicKeyUnavailable = apperr.ErrPublicKeyUnavailable

	// ErrExternalServiceFailure wraps introspection-endpoint transport
	// errors.
	ErrExternalServiceFailure = apperr.ErrExternalServiceFailure

	// ErrIntrospectionNotConfigured is returned when strategy=introspection
	// is requested but the Service has no IntrospectionClient.
	// Smart-fallback without one returns the local validation error.
	ErrIntrospectionNotConfigured = apperr.ErrInvalidToken
)

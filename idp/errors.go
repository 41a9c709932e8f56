package idp

import "github.com/dmitrymomot/authcore/internal/apperr"

var (
	// ErrInvalidCredentials maps a provider 401 during password-grant
	// authentication.
	ErrInvalidCredentials = apperr.ErrInvalidCredential

	// ErrInvalidToken maps a provider 401 on refresh/introspect, and
	// token-decoding failures.
	ErrInvalidToken = apperr.ErrInvalidToken

	// ErrTokenExpired aliases apperr.ErrTokenExpired. DecodeToken does not
	// check exp, so no call in this package returns it.
	ErrTokenExpired = apperr.ErrTokenExpired

	// ErrForbidden maps a provider 403.
	ErrForbidden = apperr.ErrForbidden

	// ErrRealmNotFound maps a provider 404 on a realm-scoped operation.
	ErrRealmNotFound = apperr.ErrRealmNotConfigured

	// ErrConflict maps a provider 409 (e.g. duplicate username/email).
	ErrConflict = apperr.ErrRealmConflict

	// ErrExternalServiceFailure covers network errors surviving bounded
	// retry, and any unmapped non-2xx provider response.
	ErrExternalServiceFailure = apperr.ErrExternalServiceFailure
)

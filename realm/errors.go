package realm

import (
	"errors"

	"github.com/dmitrymomot/authcore/internal/apperr"
)

var (
	// ErrNotConfigured maps to apperr.ErrRealmNotConfigured: no active realm
	// row exists for the requested tenant or realm id.
	ErrNotConfigured = apperr.ErrRealmNotConfigured

	// ErrConflict maps to apperr.ErrRealmConflict: an active realm already
	// exists for this tenant, or (provider-server-url, realm-name) collides
	// with an existing row.
	ErrConflict = apperr.ErrRealmConflict

	// ErrPublicKeyUnavailable is returned when no RSA signing key with
	// use=sig is present in the realm's JWKS document.
	ErrPublicKeyUnavailable = apperr.ErrPublicKeyUnavailable

	// ErrExternalServiceFailure wraps identity-provider errors encountered
	// while creating or updating a realm/client remotely.
	ErrExternalServiceFailure = apperr.ErrExternalServiceFailure

	// ErrStorageFailure wraps database errors.
	ErrStorageFailure = apperr.ErrStorageFailure

	// ErrLegacySecretNotAllowed is returned by OpenClientSecret when a
	// stored value is unsealed plaintext and realm.allow-legacy-secrets is
	// not enabled.
	ErrLegacySecretNotAllowed = errors.New("realm: legacy plaintext client secret rejected; enable allow-legacy-secrets to accept it")
)

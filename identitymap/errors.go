package identitymap

import "github.com/dmitrymomot/authcore/internal/apperr"

var (
	// ErrNotFound is returned when no mapping exists and no claims were
	// supplied to provision one.
	ErrNotFound = apperr.ErrNotFound

	// ErrConflict is returned on a uniqueness violation — (tenant, username)
	// or (tenant, lower(email)) collision during upsert.
	ErrConflict = apperr.ErrUserConflict

	// ErrMappingFailure wraps unexpected storage errors during mapping.
	ErrMappingFailure = apperr.ErrUserMappingFailure

	ErrStorageFailure = apperr.ErrStorageFailure
)

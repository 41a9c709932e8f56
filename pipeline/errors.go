package pipeline

import "github.com/dmitrymomot/authcore/internal/apperr"

var (
	// ErrMissingTenant is returned when no tenant identifier resolves from
	// any of the four §6 sources and the endpoint requires tenant scope.
	ErrMissingTenant = apperr.ErrMissingTenant

	// ErrUnauthenticated is returned when no bearer token is present and the
	// endpoint is not guest-eligible.
	ErrUnauthenticated = apperr.ErrInvalidToken

	// ErrUserDisabled is returned when the mapped identity is inactive.
	ErrUserDisabled = apperr.ErrUserDisabled

	// ErrForbidden is returned when the caller lacks a required permission.
	ErrForbidden = apperr.ErrForbidden
)

// Package apperr collects the sentinel errors shared across every component
// of the authorization core. Components wrap these with errors.Join
// alongside component-specific detail so callers can both errors.Is against
// the category and read the original cause.
//
// Package apperror is the only place that maps these
// sentinels to HTTP status codes; components themselves never know about
// HTTP.
package apperr

import "errors"

// AuthN
var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrTokenRevoked      = errors.New("token revoked")
)

// AuthZ
var (
	ErrForbidden               = errors.New("forbidden")
	ErrUserDisabled            = errors.New("user disabled")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)

// Tenant
var (
	ErrMissingTenant     = errors.New("missing tenant")
	ErrRealmNotConfigured = errors.New("realm not configured")
	ErrRealmConflict     = errors.New("realm conflict")
)

// Identity
var (
	ErrUserMappingFailure = errors.New("user mapping failure")
	ErrUserConflict       = errors.New("user conflict")
)

// External
var (
	ErrExternalServiceFailure = errors.New("external service failure")
	ErrPublicKeyUnavailable   = errors.New("public key unavailable")
)

// Storage
var (
	ErrStorageFailure = errors.New("storage failure")
)

// Rate
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// NotFound is used by components whose lookup contract distinguishes "no
// such row" from a storage failure (realm, role, identity lookups).
var ErrNotFound = errors.New("not found")

// Validation is used by HTTP-facing components rejecting a malformed
// request body before any collaborator call is made.
var ErrValidation = errors.New("validation failed")

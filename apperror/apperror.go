// Package apperror converts the sentinel error taxonomy of internal/apperr
// into the JSON envelope and HTTP status codes of the public API surface.
// It is the only place in the module that maps a component error to a
// status code; components themselves never know about HTTP.
package apperror

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/authcore/internal/apperr"
)

// Code is the snake_case error code placed in the response envelope.
type Code string

const (
	CodeInvalidToken       Code = "invalid_token"
	CodeTokenExpired       Code = "token_expired"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeTokenRevoked       Code = "token_revoked"

	CodeForbidden               Code = "forbidden"
	CodeUserDisabled            Code = "user_disabled"
	CodeInsufficientPermissions Code = "insufficient_permissions"

	CodeMissingTenant Code = "missing_tenant"
	CodeRealmNotFound Code = "realm_not_configured"
	CodeRealmConflict Code = "realm_conflict"

	CodeUserMappingFailure Code = "user_mapping_failure"
	CodeUserConflict       Code = "user_conflict"

	CodeExternalServiceFailure Code = "external_service_failure"
	CodePublicKeyUnavailable   Code = "public_key_unavailable"

	CodeStorageFailure Code = "storage_failure"

	CodeRateLimitExceeded Code = "rate_limit_exceeded"

	CodeNotFound Code = "not_found"

	CodeValidation Code = "validation_failed"

	CodeInternal Code = "internal_error"
)

// entry pairs a sentinel with the status and code it maps to.
type entry struct {
	sentinel error
	status   int
	code     Code
}

// mapping is evaluated in order: the first sentinel errors.Is matches wins.
// More specific sentinels (TokenExpired before InvalidToken-adjacent ones)
// are listed first since errors.Join chains may satisfy more than one.
var mapping = []entry{
	{apperr.ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired},
	{apperr.ErrTokenRevoked, http.StatusUnauthorized, CodeTokenRevoked},
	{apperr.ErrInvalidCredential, http.StatusUnauthorized, CodeInvalidCredentials},
	{apperr.ErrInvalidToken, http.StatusUnauthorized, CodeInvalidToken},

	{apperr.ErrUserDisabled, http.StatusForbidden, CodeUserDisabled},
	{apperr.ErrInsufficientPermissions, http.StatusForbidden, CodeInsufficientPermissions},
	{apperr.ErrForbidden, http.StatusForbidden, CodeForbidden},

	{apperr.ErrValidation, http.StatusBadRequest, CodeValidation},
	{apperr.ErrMissingTenant, http.StatusBadRequest, CodeMissingTenant},
	{apperr.ErrRealmNotConfigured, http.StatusNotFound, CodeRealmNotFound},
	{apperr.ErrRealmConflict, http.StatusConflict, CodeRealmConflict},

	{apperr.ErrUserConflict, http.StatusConflict, CodeUserConflict},
	{apperr.ErrUserMappingFailure, http.StatusInternalServerError, CodeUserMappingFailure},

	{apperr.ErrPublicKeyUnavailable, http.StatusServiceUnavailable, CodePublicKeyUnavailable},
	{apperr.ErrExternalServiceFailure, http.StatusBadGateway, CodeExternalServiceFailure},

	{apperr.ErrRateLimitExceeded, http.StatusTooManyRequests, CodeRateLimitExceeded},

	{apperr.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{apperr.ErrStorageFailure, http.StatusInternalServerError, CodeStorageFailure},
}

// Classify maps err onto the HTTP status and response code it surfaces as.
// Unrecognized errors default to 500/internal_error.
func Classify(err error) (status int, code Code) {
	if err == nil {
		return http.StatusOK, ""
	}
	for _, m := range mapping {
		if errors.Is(err, m.sentinel) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

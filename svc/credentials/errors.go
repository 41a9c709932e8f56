package credentials

import (
	"errors"

	"github.com/dmitrymomot/authcore/internal/apperr"
)

var (
	// ErrValidation is returned for a malformed request body.
	ErrValidation = apperr.ErrValidation

	// ErrInvalidCredentials maps a provider password-grant rejection.
	ErrInvalidCredentials = apperr.ErrInvalidCredential

	// ErrInvalidToken is returned for an expired or malformed link token
	// (forgot-password, verify-email) or refresh token.
	ErrInvalidToken = apperr.ErrInvalidToken

	// ErrRealmNotConfigured is returned when the resolved tenant has no
	// active realm.
	ErrRealmNotConfigured = apperr.ErrRealmNotConfigured

	// ErrExternalServiceFailure wraps an identity-provider error surviving
	// whatever retry the provider adapter already applied.
	ErrExternalServiceFailure = apperr.ErrExternalServiceFailure

	// ErrStorageFailure wraps an identity-mapping storage error.
	ErrStorageFailure = apperr.ErrStorageFailure

	// ErrTOTPNotPending is returned by ConfirmTOTP when the caller has no
	// enrollment in progress to confirm.
	ErrTOTPNotPending = errors.New("credentials: no pending totp enrollment")

	// ErrTOTPInvalidCode is returned by ConfirmTOTP when the supplied code
	// does not validate against the pending secret.
	ErrTOTPInvalidCode = errors.New("credentials: totp code did not validate")
)

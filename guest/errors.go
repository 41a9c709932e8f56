package guest

import (
	"errors"

	"github.com/dmitrymomot/authcore/internal/apperr"
)

var (
	// ErrRateLimitExceeded is returned when either the per-IP or
	// per-session sliding window is exhausted.
	ErrRateLimitExceeded = apperr.ErrRateLimitExceeded

	// ErrSessionNotFound is returned when a presented guest session id
	// has no matching record (expired-and-reaped, or never existed).
	ErrSessionNotFound = apperr.ErrNotFound

	// ErrMalformedSessionHeader is returned when the X-Guest-Session
	// header is present but not in "<id>:<token>" form.
	ErrMalformedSessionHeader = errors.New("guest: malformed session header")

	// ErrTokenMismatch is returned when the presented token does not
	// match the stored session's token (stolen or stale id).
	ErrTokenMismatch = errors.New("guest: session token mismatch")
)

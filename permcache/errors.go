package permcache

import "github.com/dmitrymomot/authcore/internal/apperr"

// ErrStorageFailure wraps unexpected errors from the permission/role loader.
var ErrStorageFailure = apperr.ErrStorageFailure

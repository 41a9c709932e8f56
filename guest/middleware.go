package guest

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/authcore/pipeline"
)

// ErrorHandler writes an HTTP error response for a failed guest
// identification: a rate-limit rejection, or a failure of the session
// store, the rate limiter, token generation, or the header transport.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware implements the mixed authenticated-or-guest flow of §4.F: it
// runs downstream of pipeline.Pipeline.TryAuth. If that middleware
// already attached an AuthContext, the request passes through unchanged;
// otherwise Identify resolves (or mints) a guest session and attaches it
// to the request context so the same handler can serve both caller
// kinds.
func (s *Service) Middleware(onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := pipeline.FromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := s.Identify(r.Context(), w, r)
			if err != nil {
				s.log.DebugContext(r.Context(), "guest: identification failed", slog.Any("error", err))
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

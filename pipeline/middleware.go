package pipeline

import (
	"log/slog"
	"net/http"
)

// ErrorHandler writes an HTTP error response for a failed Authenticate call.
// Callers supply their own (typically apperror.Write) so pipeline stays
// decoupled from any particular response envelope.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// RequireAuth returns chi-compatible middleware that authenticates every
// request through Authenticate and attaches the resulting AuthContext to the
// request context. Requests that fail authentication never reach the next
// handler; onError writes the response instead.
func (p *Pipeline) RequireAuth(opts ProtectedOptions, onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, err := p.Authenticate(r, opts)
			if err != nil {
				p.log.DebugContext(r.Context(), "pipeline: authentication failed", slog.Any("error", err))
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), ac)))
		})
	}
}

// TryAuth attempts authentication with Critical forced false and never
// fails the request: on any error it calls the request through unchanged so
// a downstream mixed authenticated-or-guest handler can fall back to guest
// handling. Use FromContext to detect whether authentication succeeded.
func (p *Pipeline) TryAuth(opts ProtectedOptions) func(http.Handler) http.Handler {
	opts.Critical = false
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, err := p.Authenticate(r, opts)
			if err != nil {
				p.log.DebugContext(r.Context(), "pipeline: optional authentication did not succeed", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), ac)))
		})
	}
}

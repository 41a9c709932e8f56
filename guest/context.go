package guest

import "context"

// sessionKey is a private type to prevent collisions with other context
// keys.
type sessionKey struct{}

// WithSession attaches a guest session to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext retrieves the guest session attached by Middleware. Returns
// false when the request resolved to an authenticated caller instead (see
// pipeline.FromContext) or was never routed through guest identification.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok
}

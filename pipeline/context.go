package pipeline

import "context"

// authContextKey is a private type to prevent collisions with other
// context keys.
type authContextKey struct{}

// WithAuthContext attaches ac to ctx.
func WithAuthContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, ac)
}

// FromContext retrieves the AuthContext attached by the pipeline. Returns
// false if no authenticated request reached this point (e.g. a guest
// request).
func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(authContextKey{}).(AuthContext)
	return ac, ok
}

// MustFromContext retrieves the AuthContext attached by the pipeline.
// Panics if absent; use only in handlers mounted exclusively behind
// RequireAuth.
func MustFromContext(ctx context.Context) AuthContext {
	ac, ok := FromContext(ctx)
	if !ok {
		panic("pipeline: no AuthContext in context")
	}
	return ac
}

package tokenvalidator

import (
	"time"

	"github.com/dmitrymomot/authcore/internal/ids"
)

// Strategy selects how Validate authenticates a token.
type Strategy string

const (
	// StrategyLocal verifies the signature locally against the realm's
	// public key. Fastest, but blind to server-side revocation.
	StrategyLocal Strategy = "local"

	// StrategyIntrospection calls the provider's introspection endpoint.
	// Authoritative but adds a network round trip (mitigated by caching).
	StrategyIntrospection Strategy = "introspection"

	// StrategySmartFallback attempts local first, falling back to
	// introspection on any failure other than TokenExpired.
	StrategySmartFallback Strategy = "smart-fallback"
)

// ValidationMethod records which strategy actually produced an AuthContext.
type ValidationMethod string

const (
	MethodLocal         ValidationMethod = "local"
	MethodIntrospection ValidationMethod = "introspection"
)

// AuthContext is the parsed, verified claim set extracted from a token.
type AuthContext struct {
	Subject          string
	PreferredUsername string
	Email             string
	GivenName         string
	FamilyName        string
	Name              string
	Scope             string
	SessionState      string

	// RealmRoles come from the realm_access.roles claim.
	RealmRoles []string
	// ClientRoles come from resource_access.<client-id>.roles, prefixed
	// "<client-id>:" to prevent collision with realm roles.
	ClientRoles []string
	// Permissions is the optional permissions claim, when the provider
	// includes one directly on the token.
	Permissions []string

	// RawClaims carries every claim parsed off a locally-verified token,
	// keyed by claim name, for callers that need to inspect a claim this
	// struct doesn't surface explicitly. Nil for introspection-backed
	// AuthContexts, since IntrospectionResult doesn't carry the raw claim
	// set the provider introspected.
	RawClaims map[string]any

	IssuedAt  time.Time
	ExpiresAt time.Time

	RealmID          ids.ID
	ValidationMethod ValidationMethod
}

// IsFresh reports whether the token was issued no more than maxAge ago,
// relative to now.
func (a AuthContext) IsFresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(a.IssuedAt) <= maxAge
}

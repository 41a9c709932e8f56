package pipeline

import (
	"time"

	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/tokenvalidator"
)

// ExternalProvider identifies the identity-provider realm namespace that
// identitymap mappings are keyed under.
const ExternalProvider = "keycloak"

// AuthContext is the immutable, request-scoped result of the pipeline: a
// validated token's claims merged with the mapped internal user record and
// its tenant scope. Unlike tokenvalidator.AuthContext, every field here has
// already passed identity mapping and (when required) permission
// enforcement.
type AuthContext struct {
	Subject        string
	InternalUserID ids.ID
	TenantID       *ids.ID
	RealmID        ids.ID

	Email       string
	Username    string
	FirstName   string
	LastName    string
	DisplayName string

	IsActive     bool
	IsSuperadmin bool

	RealmRoles  []string
	ClientRoles []string
	Permissions []string

	// SessionID is the provider's session_state claim, identifying the
	// browser/device session a token was issued under, independent of the
	// token's own lifetime.
	SessionID string

	// Scopes is the OAuth scope claim, space-separated in the token and
	// split into individual entries here.
	Scopes []string

	// RawClaims carries every claim parsed off a locally-verified token.
	// Nil when the token was authenticated via introspection.
	RawClaims map[string]any

	// Metadata is the internal user record's free-form metadata (e.g.
	// TOTP enrollment state), copied by reference from identitymap.User.
	Metadata map[string]any

	ValidationMethod tokenvalidator.ValidationMethod
	IssuedAt         time.Time
	ExpiresAt        time.Time
}

// IsFresh reports whether the underlying token was issued no more than
// maxAge ago, for sensitive operations that require a recently-issued
// token rather than a long-lived cached AuthContext.
func (a AuthContext) IsFresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(a.IssuedAt) <= maxAge
}

// ProtectedOptions configures a single Authenticate call.
type ProtectedOptions struct {
	// RequireTenant fails MissingTenant when no tenant identifier resolves.
	// False for platform-scoped endpoints (e.g. superadmin routes).
	RequireTenant bool

	// Critical forces StrategyIntrospection, bypassing the token cache and
	// any local-validation fast path, for operations requiring immediate
	// revocation visibility.
	Critical bool

	// RequiredPermissions, when non-empty, are checked via the permission
	// cache after identity mapping. RequireAll selects AND vs OR semantics.
	RequiredPermissions []string
	RequireAll          bool
}

// TenantOptions configures tenant-identifier resolution.
type TenantOptions struct {
	// SubdomainSuffix is stripped from the host before taking the first
	// label (e.g. ".authcore.example.com").
	SubdomainSuffix string
}

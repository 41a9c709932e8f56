package realm

import (
	"time"

	"github.com/dmitrymomot/authcore/internal/ids"
)

// Status is the lifecycle state of a RealmConfig.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
	StatusDeleted  Status = "deleted"
)

// DefaultSigningAlgorithms is applied to a realm when none is specified.
var DefaultSigningAlgorithms = []string{"RS256"}

// Config is a realm's configuration: which tenant it belongs to, which
// identity-provider realm backs it, and the token-validation rules applied
// to tokens issued within it.
type Config struct {
	ID       ids.ID
	TenantID *ids.ID // nil for the platform realm

	RealmName   string
	DisplayName string

	ClientID string
	// ClientSecretRef holds the sealed (or, if allow-legacy-secrets is set,
	// legacy plaintext) client secret. Empty for public clients.
	ClientSecretRef string

	ProviderServerURL string

	SigningAlgorithms []string
	ExpectedAudience  *string
	ExpectedIssuer    *string

	VerifySignature bool
	VerifyExp       bool
	VerifyNbf       bool
	VerifyIat       bool
	VerifyAudience  bool
	VerifyIssuer    bool

	PublicKeyTTL time.Duration

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the realm currently accepts traffic.
func (c Config) IsActive() bool {
	return c.Status == StatusActive
}

// IsPublicClient reports whether the realm's client has no secret.
func (c Config) IsPublicClient() bool {
	return c.ClientSecretRef == ""
}

// CreateParams carries the fields supplied by the caller of CreateTenantRealm;
// identifiers, timestamps, and status are assigned by the service.
type CreateParams struct {
	RealmName         string
	DisplayName       string
	ClientID          string
	ClientSecret      string // plaintext; sealed before persistence
	ProviderServerURL string
	SigningAlgorithms []string
	ExpectedAudience  *string
	ExpectedIssuer    *string
}

// UpdateParams carries the mutable subset of Config accepted by UpdateRealm.
type UpdateParams struct {
	DisplayName      *string
	ExpectedAudience *string
	ExpectedIssuer   *string
	VerifyAudience   *bool
	VerifyIssuer     *bool
	PublicKeyTTL     *time.Duration
}

// SigningKey is a provider-agnostic RSA public signing key, selected from
// a realm's JWKS document (kty=RSA, use=sig).
type SigningKey struct {
	KeyID     string
	PEM       []byte
	Algorithm string
}

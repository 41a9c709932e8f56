package credentials

import (
	"context"

	"github.com/dmitrymomot/authcore/identitymap"
	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/realm"
)

// RealmSource is the subset of realm.Service this package drives directly,
// expressed as an interface so tests substitute a fake instead of
// constructing a full realm.Service.
type RealmSource interface {
	GetRealmByTenant(ctx context.Context, tenantID ids.ID) (realm.Config, error)
	OpenClientSecret(ctx context.Context, cfg realm.Config) (string, error)
}

// Provider is the subset of idp.Client's per-realm surface Login, Refresh,
// Logout, ForgotPassword, ResetPassword, VerifyEmail, and RemoveTOTP
// drive. Every
// method takes the realm's already-unsealed client secret explicitly
// (never cfg.ClientSecretRef) so this package never handles sealed
// ciphertext itself.
type Provider interface {
	Authenticate(ctx context.Context, cfg realm.Config, clientSecret, username, password string) (TokenBundle, error)
	RefreshToken(ctx context.Context, cfg realm.Config, clientSecret, refreshToken string) (TokenBundle, error)
	Logout(ctx context.Context, cfg realm.Config, clientSecret, refreshToken string) error
	DecodeToken(ctx context.Context, cfg realm.Config, clientSecret, accessToken string) (Claims, error)

	GetUserByEmail(ctx context.Context, cfg realm.Config, clientSecret, email string) (AdminUser, error)
	SetUserPassword(ctx context.Context, cfg realm.Config, clientSecret, userID, password string) error
	MarkEmailVerified(ctx context.Context, cfg realm.Config, clientSecret, userID string) error
	RemoveTOTP(ctx context.Context, cfg realm.Config, clientSecret, userID string) error
}

// IdentityStore is the subset of identitymap.Service this package reads and
// writes: mapping external subjects to internal users on login, and
// stashing TOTP enrollment state in the user's metadata blob.
type IdentityStore interface {
	UpsertFromClaims(ctx context.Context, provider, subjectID string, tenantID *ids.ID, claims identitymap.Claims) (identitymap.User, error)
	GetByInternalId(ctx context.Context, id ids.ID) (identitymap.User, error)
	SetMetadata(ctx context.Context, id ids.ID, metadata map[string]any) error
}

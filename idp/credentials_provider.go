package idp

import (
	"context"

	"github.com/dmitrymomot/authcore/realm"
	"github.com/dmitrymomot/authcore/svc/credentials"
)

// CredentialsProvider adapts Client to svc/credentials.Provider, resolving
// a per-realm adapter from the caller's already-unsealed client secret the
// same way ValidatorIntrospection and RealmProvider do.
type CredentialsProvider struct {
	client *Client
}

// NewCredentialsProvider wraps client for use as a credentials.Provider.
func NewCredentialsProvider(client *Client) *CredentialsProvider {
	return &CredentialsProvider{client: client}
}

func (p *CredentialsProvider) adapter(cfg realm.Config, clientSecret string) *RealmAdapter {
	return p.client.RealmAdapterWithSecret(cfg.ID, cfg.ProviderServerURL, cfg.RealmName, cfg.ClientID, clientSecret)
}

// Authenticate performs the password grant via the resolved realm adapter.
func (p *CredentialsProvider) Authenticate(ctx context.Context, cfg realm.Config, clientSecret, username, password string) (credentials.TokenBundle, error) {
	bundle, err := p.adapter(cfg, clientSecret).Authenticate(ctx, username, password)
	if err != nil {
		return credentials.TokenBundle{}, err
	}
	return tokenBundleToCredentials(bundle), nil
}

// RefreshToken exchanges a refresh token via the resolved realm adapter.
func (p *CredentialsProvider) RefreshToken(ctx context.Context, cfg realm.Config, clientSecret, refreshToken string) (credentials.TokenBundle, error) {
	bundle, err := p.adapter(cfg, clientSecret).RefreshToken(ctx, refreshToken)
	if err != nil {
		return credentials.TokenBundle{}, err
	}
	return tokenBundleToCredentials(bundle), nil
}

// Logout revokes a refresh token via the resolved realm adapter.
func (p *CredentialsProvider) Logout(ctx context.Context, cfg realm.Config, clientSecret, refreshToken string) error {
	return p.adapter(cfg, clientSecret).Logout(ctx, refreshToken)
}

// DecodeToken decodes an access token's claims without contacting the
// provider, trusting the caller to have already validated the token
// through package tokenvalidator (or to have just received it fresh from
// Authenticate above).
func (p *CredentialsProvider) DecodeToken(ctx context.Context, cfg realm.Config, clientSecret, accessToken string) (credentials.Claims, error) {
	claims, err := p.adapter(cfg, clientSecret).DecodeToken(ctx, accessToken, false)
	if err != nil {
		return credentials.Claims{}, err
	}
	return claimsToCredentials(claims), nil
}

// GetUserByEmail looks up a provider user by exact email via the admin API.
func (p *CredentialsProvider) GetUserByEmail(ctx context.Context, cfg realm.Config, clientSecret, email string) (credentials.AdminUser, error) {
	user, err := p.adapter(cfg, clientSecret).GetUserByEmail(ctx, email)
	if err != nil {
		return credentials.AdminUser{}, err
	}
	return credentials.AdminUser{ID: user.ID, Email: user.Email, EmailVerified: user.EmailVerified}, nil
}

// SetUserPassword sets a new non-temporary password for userID via the
// admin API.
func (p *CredentialsProvider) SetUserPassword(ctx context.Context, cfg realm.Config, clientSecret, userID, password string) error {
	return p.adapter(cfg, clientSecret).SetUserPassword(ctx, userID, password, false)
}

// MarkEmailVerified flips the provider user's email-verified flag via the
// admin API's partial-update endpoint; the provider has no single
// dedicated "mark verified" call.
func (p *CredentialsProvider) MarkEmailVerified(ctx context.Context, cfg realm.Config, clientSecret, userID string) error {
	verified := true
	return p.adapter(cfg, clientSecret).UpdateUser(ctx, userID, UpdateUserParams{EmailVerified: &verified})
}

// RemoveTOTP removes the TOTP credential for userID via the admin API.
func (p *CredentialsProvider) RemoveTOTP(ctx context.Context, cfg realm.Config, clientSecret, userID string) error {
	return p.adapter(cfg, clientSecret).RemoveTOTP(ctx, userID)
}

func tokenBundleToCredentials(b TokenBundle) credentials.TokenBundle {
	return credentials.TokenBundle{
		AccessToken:      b.AccessToken,
		RefreshToken:     b.RefreshToken,
		IDToken:          b.IDToken,
		TokenType:        b.TokenType,
		ExpiresIn:        b.ExpiresIn,
		RefreshExpiresIn: b.RefreshExpiresIn,
	}
}

func claimsToCredentials(c Claims) credentials.Claims {
	return credentials.Claims{
		Subject:   c.Subject,
		Email:     c.Email,
		FirstName: c.GivenName,
		LastName:  c.FamilyName,
		Username:  c.PreferredUsername,
	}
}

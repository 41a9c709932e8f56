package idp

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
)

// OIDC is the per-realm OpenID-Connect surface.
type OIDC interface {
	Authenticate(ctx context.Context, username, password string) (TokenBundle, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenBundle, error)
	Logout(ctx context.Context, refreshToken string) error
	Userinfo(ctx context.Context, accessToken string) (Claims, error)
	Introspect(ctx context.Context, token string) (Claims, bool, error)
	DecodeToken(ctx context.Context, token string, validate bool) (Claims, error)
	PublicKey(ctx context.Context) ([]byte, error)
	WellKnown(ctx context.Context) (ConfigDoc, error)
}

// tokenResponse decodes the provider's snake_case token-endpoint body
// directly into a TokenBundle.
type tokenResponse struct {
	bundle *TokenBundle
}

func (t *tokenResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		AccessToken      string `json:"access_token"`
		RefreshToken     string `json:"refresh_token"`
		IDToken          string `json:"id_token"`
		TokenType        string `json:"token_type"`
		ExpiresIn        int    `json:"expires_in"`
		RefreshExpiresIn int    `json:"refresh_expires_in"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t.bundle = TokenBundle{
		AccessToken:      raw.AccessToken,
		RefreshToken:     raw.RefreshToken,
		IDToken:          raw.IDToken,
		TokenType:        raw.TokenType,
		ExpiresIn:        raw.ExpiresIn,
		RefreshExpiresIn: raw.RefreshExpiresIn,
	}
	return nil
}

// Authenticate performs the resource-owner-password-credentials grant.
// Never retried: ambiguous authentication failures must surface, not be
// silently repeated against the provider.
func (r *RealmAdapter) Authenticate(ctx context.Context, username, password string) (TokenBundle, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", r.clientID)
	if r.clientSecret != "" {
		form.Set("client_secret", r.clientSecret)
	}
	form.Set("username", username)
	form.Set("password", password)

	var bundle TokenBundle
	if err := r.postForm(ctx, r.realmURL("/protocol/openid-connect/token"), form, &tokenResponse{bundle: &bundle}); err != nil {
		if err == ErrInvalidCredentials {
			return TokenBundle{}, ErrInvalidCredentials
		}
		return TokenBundle{}, err
	}
	return bundle, nil
}

// RefreshToken exchanges a refresh token for a new bundle. Never retried.
func (r *RealmAdapter) RefreshToken(ctx context.Context, refreshToken string) (TokenBundle, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", r.clientID)
	if r.clientSecret != "" {
		form.Set("client_secret", r.clientSecret)
	}
	form.Set("refresh_token", refreshToken)

	var bundle TokenBundle
	if err := r.postForm(ctx, r.realmURL("/protocol/openid-connect/token"), form, &tokenResponse{bundle: &bundle}); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return TokenBundle{}, ErrInvalidToken
		}
		return TokenBundle{}, err
	}
	return bundle, nil
}

// Logout revokes a refresh token at the provider's end-session endpoint.
func (r *RealmAdapter) Logout(ctx context.Context, refreshToken string) error {
	form := url.Values{}
	form.Set("client_id", r.clientID)
	if r.clientSecret != "" {
		form.Set("client_secret", r.clientSecret)
	}
	form.Set("refresh_token", refreshToken)

	return r.postForm(ctx, r.realmURL("/protocol/openid-connect/logout"), form, nil)
}

// Userinfo calls the userinfo endpoint with accessToken as the bearer.
func (r *RealmAdapter) Userinfo(ctx context.Context, accessToken string) (Claims, error) {
	var raw claimsResponse
	if err := r.getJSON(ctx, r.realmURL("/protocol/openid-connect/userinfo"), accessToken, &raw); err != nil {
		return Claims{}, err
	}
	return raw.toClaims(), nil
}

// introspectResponse is the provider's token/introspect response.
type introspectResponse struct {
	Active bool `json:"active"`
	claimsResponse
}

// Introspect calls the provider's introspection endpoint using this
// realm's client credentials as the introspecting principal.
func (r *RealmAdapter) Introspect(ctx context.Context, token string) (Claims, bool, error) {
	form := url.Values{}
	form.Set("token", token)
	form.Set("client_id", r.clientID)
	if r.clientSecret != "" {
		form.Set("client_secret", r.clientSecret)
	}

	var raw introspectResponse
	err := withRetry(ctx, func(ctx context.Context) error {
		if err := r.postForm(ctx, r.realmURL("/protocol/openid-connect/token/introspect"), form, &raw); err != nil {
			if errors.Is(err, ErrExternalServiceFailure) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return Claims{}, false, ErrInvalidToken
		}
		return Claims{}, false, err
	}
	return raw.toClaims(), raw.Active, nil
}

// DecodeToken decodes a JWT's claims without contacting the provider. When
// validate is true, callers are expected to have already run the token
// through package tokenvalidator; DecodeToken itself never verifies a
// signature — it only base64-decodes the payload segment.
func (r *RealmAdapter) DecodeToken(_ context.Context, token string, _ bool) (Claims, error) {
	return decodeJWTPayload(token)
}

// PublicKey returns the realm's current signing key as PEM, via the JWKS
// endpoint.
func (r *RealmAdapter) PublicKey(ctx context.Context) ([]byte, error) {
	keys, err := r.fetchJWKS(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, ErrExternalServiceFailure
	}
	return keys[0].PEM, nil
}

// WellKnown fetches and parses the provider's OpenID configuration
// document.
func (r *RealmAdapter) WellKnown(ctx context.Context) (ConfigDoc, error) {
	var raw struct {
		Issuer                string `json:"issuer"`
		AuthorizationEndpoint string `json:"authorization_endpoint"`
		TokenEndpoint         string `json:"token_endpoint"`
		UserinfoEndpoint      string `json:"userinfo_endpoint"`
		JWKSURI               string `json:"jwks_uri"`
		IntrospectionEndpoint string `json:"introspection_endpoint"`
		EndSessionEndpoint    string `json:"end_session_endpoint"`
	}
	if err := r.getJSON(ctx, r.realmURL("/.well-known/openid-configuration"), "", &raw); err != nil {
		return ConfigDoc{}, err
	}
	return ConfigDoc{
		Issuer:                raw.Issuer,
		AuthorizationEndpoint: raw.AuthorizationEndpoint,
		TokenEndpoint:         raw.TokenEndpoint,
		UserinfoEndpoint:      raw.UserinfoEndpoint,
		JWKSURI:               raw.JWKSURI,
		IntrospectionEndpoint: raw.IntrospectionEndpoint,
		EndSessionEndpoint:    raw.EndSessionEndpoint,
	}, nil
}

// claimsResponse is the common shape of userinfo/introspection JSON
// bodies.
type claimsResponse struct {
	Sub               string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	GivenName         string `json:"given_name"`
	FamilyName        string `json:"family_name"`
	Name              string `json:"name"`
	Scope             string `json:"scope"`
	Iat               int64  `json:"iat"`
	Exp               int64  `json:"exp"`
}

func (c claimsResponse) toClaims() Claims {
	claims := Claims{
		Subject:           c.Sub,
		PreferredUsername: c.PreferredUsername,
		Email:             c.Email,
		GivenName:         c.GivenName,
		FamilyName:        c.FamilyName,
		Name:              c.Name,
		Scope:             c.Scope,
	}
	if c.Iat > 0 {
		claims.IssuedAt = time.Unix(c.Iat, 0)
	}
	if c.Exp > 0 {
		claims.ExpiresAt = time.Unix(c.Exp, 0)
	}
	return claims
}

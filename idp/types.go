package idp

import "time"

// TokenBundle is the provider's token response from the password or
// refresh-token grant.
type TokenBundle struct {
	AccessToken      string
	RefreshToken     string
	IDToken          string
	TokenType        string
	ExpiresIn        int
	RefreshExpiresIn int
}

// Claims is the subset of userinfo/introspection claims the admin and
// OIDC surfaces expose to callers, independent of token-validation
// concerns (which live in package tokenvalidator).
type Claims struct {
	Subject           string
	PreferredUsername string
	Email             string
	GivenName         string
	FamilyName        string
	Name              string
	Scope             string
	IssuedAt          time.Time
	ExpiresAt         time.Time
}

// ConfigDoc is the provider's OpenID configuration document
// (.well-known/openid-configuration), trimmed to the fields consumed
// elsewhere in the module.
type ConfigDoc struct {
	Issuer                string
	AuthorizationEndpoint string
	TokenEndpoint         string
	UserinfoEndpoint      string
	JWKSURI               string
	IntrospectionEndpoint string
	EndSessionEndpoint    string
}

// CreateUserParams carries the fields accepted by Admin.CreateUser.
type CreateUserParams struct {
	Username      string
	Email         string
	FirstName     string
	LastName      string
	EmailVerified bool
	Enabled       bool
}

// AdminUser is a provider-side user record, as returned by the admin user
// CRUD endpoints.
type AdminUser struct {
	ID            string
	Username      string
	Email         string
	FirstName     string
	LastName      string
	EmailVerified bool
	Enabled       bool
	CreatedAt     time.Time
}

// UpdateUserParams carries the mutable subset of AdminUser accepted by
// Admin.UpdateUser. Nil fields are left unchanged.
type UpdateUserParams struct {
	Email         *string
	FirstName     *string
	LastName      *string
	EmailVerified *bool
	Enabled       *bool
}

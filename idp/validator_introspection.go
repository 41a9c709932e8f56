package idp

import (
	"context"

	"github.com/dmitrymomot/authcore/realm"
	"github.com/dmitrymomot/authcore/tokenvalidator"
)

// ValidatorIntrospection adapts Client to tokenvalidator.IntrospectionClient,
// bridging the OIDC surface's (Claims, bool, error) return shape to the
// validator's (IntrospectionResult, error) shape. Kept separate from the
// Introspect method on RealmAdapter so that method keeps its native OIDC
// signature for direct callers.
type ValidatorIntrospection struct {
	client *Client
}

// NewValidatorIntrospection wraps client for use as a
// tokenvalidator.IntrospectionClient.
func NewValidatorIntrospection(client *Client) *ValidatorIntrospection {
	return &ValidatorIntrospection{client: client}
}

// Introspect resolves the realm adapter for cfg and calls its provider-side
// introspection endpoint, authenticating with clientSecret (the caller's
// already-unsealed plaintext, never cfg.ClientSecretRef directly).
func (v *ValidatorIntrospection) Introspect(ctx context.Context, cfg realm.Config, clientSecret, token string) (tokenvalidator.IntrospectionResult, error) {
	adapter := v.client.RealmAdapterWithSecret(cfg.ID, cfg.ProviderServerURL, cfg.RealmName, cfg.ClientID, clientSecret)

	claims, active, err := adapter.Introspect(ctx, token)
	if err != nil {
		return tokenvalidator.IntrospectionResult{}, err
	}

	result := tokenvalidator.IntrospectionResult{
		Active:  active,
		Subject: claims.Subject,
		Scope:   claims.Scope,
	}
	if !claims.ExpiresAt.IsZero() {
		result.Exp = claims.ExpiresAt.Unix()
	}
	return result, nil
}

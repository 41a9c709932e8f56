package tokenvalidator

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/realm"
)

// validateLocal verifies the token's signature and standard claims against
// the realm's public key, then extracts the AuthContext from its claims.
func validateLocal(token string, cfg realm.Config, key realm.SigningKey) (AuthContext, error) {
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(key.PEM)
	if err != nil {
		return AuthContext{}, errors.Join(ErrPublicKeyUnavailable, err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return pubKey, nil
	}, jwt.WithValidMethods(cfg.SigningAlgorithms))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AuthContext{}, ErrTokenExpired
		}
		return AuthContext{}, errors.Join(ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return AuthContext{}, ErrInvalidToken
	}

	if cfg.VerifyAudience && cfg.ExpectedAudience != nil {
		aud, _ := claims.GetAudience()
		if !slices.Contains(aud, *cfg.ExpectedAudience) {
			return AuthContext{}, ErrInvalidToken
		}
	}
	if cfg.VerifyIssuer && cfg.ExpectedIssuer != nil {
		iss, _ := claims.GetIssuer()
		if iss != *cfg.ExpectedIssuer {
			return AuthContext{}, ErrInvalidToken
		}
	}

	return extractAuthContext(claims, cfg.ID, cfg.ClientID, MethodLocal)
}

// extractAuthContext maps standard and Keycloak-style custom claims
// (realm_access.roles, resource_access.<client-id>.roles, permissions)
// onto an AuthContext.
func extractAuthContext(claims jwt.MapClaims, realmID ids.ID, clientID string, method ValidationMethod) (AuthContext, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return AuthContext{}, ErrInvalidToken
	}

	ac := AuthContext{
		Subject:           sub,
		PreferredUsername: stringClaim(claims, "preferred_username"),
		Email:             stringClaim(claims, "email"),
		GivenName:         stringClaim(claims, "given_name"),
		FamilyName:        stringClaim(claims, "family_name"),
		Name:              stringClaim(claims, "name"),
		Scope:             stringClaim(claims, "scope"),
		SessionState:      stringClaim(claims, "session_state"),
		RealmID:           realmID,
		ValidationMethod:  method,
		RawClaims:         map[string]any(claims),
	}

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		ac.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		ac.ExpiresAt = exp.Time
	}

	if realmAccess, ok := claims["realm_access"].(map[string]any); ok {
		ac.RealmRoles = stringSliceClaim(realmAccess["roles"])
	}

	if resourceAccess, ok := claims["resource_access"].(map[string]any); ok {
		if access, ok := resourceAccess[clientID].(map[string]any); ok {
			for _, role := range stringSliceClaim(access["roles"]) {
				ac.ClientRoles = append(ac.ClientRoles, clientID+":"+role)
			}
		}
	}

	if permissions, ok := claims["permissions"]; ok {
		ac.Permissions = stringSliceClaim(permissions)
	}

	return ac, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

func stringSliceClaim(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// tokenExpiry returns how many seconds remain until exp, floored at zero,
// used to cap the introspection cache TTL.
func tokenExpiry(exp time.Time, now time.Time) int64 {
	remaining := exp.Sub(now)
	if remaining < 0 {
		return 0
	}
	return int64(remaining.Seconds())
}

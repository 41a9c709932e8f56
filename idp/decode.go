package idp

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// decodeJWTPayload base64-decodes a JWT's payload segment without
// verifying its signature. Used only where the caller has separately
// established trust in the token (e.g. it already passed through package
// tokenvalidator); never a substitute for signature verification.
func decodeJWTPayload(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	var raw claimsResponse
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Claims{}, ErrInvalidToken
	}

	return raw.toClaims(), nil
}

package idp

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrymomot/authcore/realm"
)

// fetchJWKS retrieves the realm's JWKS document and converts each RSA
// signature key into a PEM-encoded public key, grounded on the
// lestrrat-go/jwx JOSE library.
func (r *RealmAdapter) fetchJWKS(ctx context.Context) ([]realm.SigningKey, error) {
	var set jwk.Set
	err := withRetry(ctx, func(ctx context.Context) error {
		fetched, err := jwk.Fetch(ctx, r.realmURL("/protocol/openid-connect/certs"), jwk.WithHTTPClient(r.client.httpClient))
		if err != nil {
			return retry.RetryableError(err)
		}
		set = fetched
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fetching jwks: %w", ErrExternalServiceFailure, err)
	}

	keys := make([]realm.SigningKey, 0, set.Len())
	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok {
			continue
		}
		if key.KeyUsage() != "" && key.KeyUsage() != "sig" {
			continue
		}
		if string(key.KeyType()) != "RSA" {
			continue
		}

		var rawKey rsa.PublicKey
		if err := key.Raw(&rawKey); err != nil {
			continue
		}

		der, err := x509.MarshalPKIXPublicKey(&rawKey)
		if err != nil {
			continue
		}
		block := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

		keys = append(keys, realm.SigningKey{
			KeyID:     key.KeyID(),
			PEM:       block,
			Algorithm: "RS256",
		})
	}

	return keys, nil
}


package idp

import (
	"context"
	"net/url"
)

// adminToken acquires a bearer token for admin API calls, using whichever
// strategy ClientConfig.AdminAuthStrategy selects: admin username/password
// against the master realm, or client-credentials against this realm.
func (r *RealmAdapter) adminToken(ctx context.Context) (string, error) {
	cfg := r.client.cfg

	switch cfg.AdminAuthStrategy {
	case AdminAuthClientCredentials:
		form := url.Values{}
		form.Set("grant_type", "client_credentials")
		form.Set("client_id", r.clientID)
		form.Set("client_secret", r.clientSecret)

		var bundle TokenBundle
		if err := r.postForm(ctx, r.realmURL("/protocol/openid-connect/token"), form, &tokenResponse{bundle: &bundle}); err != nil {
			return "", err
		}
		return bundle.AccessToken, nil

	default: // AdminAuthMasterRealm
		adminRealm := cfg.AdminRealm
		if adminRealm == "" {
			adminRealm = "master"
		}

		form := url.Values{}
		form.Set("grant_type", "password")
		form.Set("client_id", "admin-cli")
		form.Set("username", cfg.AdminUsername)
		form.Set("password", cfg.AdminPassword)

		masterAdapter := &RealmAdapter{client: r.client, baseURL: r.baseURL, realmName: adminRealm}
		var bundle TokenBundle
		if err := masterAdapter.postForm(ctx, masterAdapter.realmURL("/protocol/openid-connect/token"), form, &tokenResponse{bundle: &bundle}); err != nil {
			return "", err
		}
		return bundle.AccessToken, nil
	}
}

package idp_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/idp"
	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/realm"
)

func realmConfig(name string) realm.Config {
	return realm.Config{
		ID:                ids.New(),
		RealmName:         name,
		ClientID:          "web",
		SigningAlgorithms: realm.DefaultSigningAlgorithms,
	}
}

func newTestClient(t *testing.T, cfg idp.ClientConfig) (*idp.Client, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return idp.NewClient(cfg), srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestAuthenticate_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/acme/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.FormValue("grant_type"))
		assert.Equal(t, "jane", r.FormValue("username"))
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "at-123",
			"refresh_token": "rt-123",
			"token_type":    "Bearer",
			"expires_in":    300,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := idp.NewClient(idp.ClientConfig{})
	adapter := client.RealmAdapterFor(ids.New(), srv.URL, "acme", "web", "")

	bundle, err := adapter.Authenticate(t.Context(), "jane", "s3cr3t")
	require.NoError(t, err)
	assert.Equal(t, "at-123", bundle.AccessToken)
	assert.Equal(t, "rt-123", bundle.RefreshToken)
	assert.Equal(t, 300, bundle.ExpiresIn)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/acme/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_grant"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := idp.NewClient(idp.ClientConfig{})
	adapter := client.RealmAdapterFor(ids.New(), srv.URL, "acme", "web", "")

	_, err := adapter.Authenticate(t.Context(), "jane", "wrong")
	assert.ErrorIs(t, err, idp.ErrInvalidCredentials)
}

func TestIntrospect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/acme/protocol/openid-connect/token/introspect", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "confidential-web", r.FormValue("client_id"))
		writeJSON(w, http.StatusOK, map[string]any{
			"active": true,
			"sub":    "user-1",
			"scope":  "openid profile",
			"exp":    9999999999,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := idp.NewClient(idp.ClientConfig{})
	adapter := client.RealmAdapterFor(ids.New(), srv.URL, "acme", "confidential-web", "s3cr3t")

	claims, active, err := adapter.Introspect(t.Context(), "some-token")
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestCreateRealm_UsesDefaults(t *testing.T) {
	var captured map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/master/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "admin-tok", "token_type": "Bearer", "expires_in": 60})
	})
	mux.HandleFunc("/admin/realms", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		assert.Equal(t, "Bearer admin-tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := idp.NewClient(idp.ClientConfig{
		AdminAuthStrategy: idp.AdminAuthMasterRealm,
		AdminUsername:     "admin",
		AdminPassword:     "admin-pass",
	})
	adapter := client.RealmAdapterFor(ids.New(), srv.URL, "acme", "web", "")

	err := adapter.CreateRealm(t.Context(), realmConfig("acme"))
	require.NoError(t, err)
	assert.Equal(t, "acme", captured["realm"])
	assert.Equal(t, true, captured["bruteForceProtected"])
	assert.Equal(t, "en", captured["defaultLocale"])
}

func TestAdminToken_ClientCredentialsStrategy(t *testing.T) {
	var grantType string
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/acme/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		grantType = r.FormValue("grant_type")
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "cc-tok", "token_type": "Bearer", "expires_in": 60})
	})
	mux.HandleFunc("/admin/realms/acme/users/u1/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer cc-tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := idp.NewClient(idp.ClientConfig{AdminAuthStrategy: idp.AdminAuthClientCredentials})
	adapter := client.RealmAdapterFor(ids.New(), srv.URL, "acme", "service-account", "svc-secret")

	err := adapter.LogoutAllSessions(t.Context(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "client_credentials", grantType)
}

func TestFindUser_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/master/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "admin-tok", "token_type": "Bearer", "expires_in": 60})
	})
	mux.HandleFunc("/admin/realms/acme/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := idp.NewClient(idp.ClientConfig{AdminUsername: "a", AdminPassword: "b"})
	adapter := client.RealmAdapterFor(ids.New(), srv.URL, "acme", "web", "")

	_, err := adapter.GetUserByUsername(t.Context(), "ghost")
	assert.ErrorIs(t, err, idp.ErrRealmNotFound)
}

func TestRealmAdapterFor_CachesByID(t *testing.T) {
	client := idp.NewClient(idp.ClientConfig{})
	realmID := ids.New()

	a1 := client.RealmAdapterFor(realmID, "https://a.example.com", "acme", "web", "")
	a2 := client.RealmAdapterFor(realmID, "https://different.example.com/auth", "other", "other-client", "x")
	assert.Same(t, a1, a2, "second call must return the cached adapter, ignoring new args")

	client.InvalidateRealmAdapter(realmID)
	a3 := client.RealmAdapterFor(realmID, "https://different.example.com/auth", "other", "other-client", "x")
	assert.NotSame(t, a1, a3)
}

func TestNormalizeURL_StripsTrailingAuthSegment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/acme/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"issuer": "https://idp.example.com/realms/acme"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := idp.NewClient(idp.ClientConfig{})
	adapter := client.RealmAdapterFor(ids.New(), srv.URL+"/auth", "acme", "web", "")

	doc, err := adapter.WellKnown(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "https://idp.example.com/realms/acme", doc.Issuer)
}

func TestDecodeToken_NeverVerifiesSignature(t *testing.T) {
	client := idp.NewClient(idp.ClientConfig{})
	adapter := client.RealmAdapterFor(ids.New(), "https://idp.example.com", "acme", "web", "")

	header := `{"alg":"none"}`
	payload := `{"sub":"user-1","preferred_username":"jane","exp":9999999999}`
	token := b64url(header) + "." + b64url(payload) + ".signature-not-checked"

	claims, err := adapter.DecodeToken(t.Context(), token, false)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "jane", claims.PreferredUsername)
}

func TestDecodeToken_Malformed(t *testing.T) {
	client := idp.NewClient(idp.ClientConfig{})
	adapter := client.RealmAdapterFor(ids.New(), "https://idp.example.com", "acme", "web", "")

	_, err := adapter.DecodeToken(t.Context(), "not-a-jwt", false)
	assert.ErrorIs(t, err, idp.ErrInvalidToken)
}

package idp

import (
	"context"
	"net/url"

	"github.com/dmitrymomot/authcore/realm"
)

// Admin is the per-realm (or master-realm) administrative surface.
type Admin interface {
	CreateRealm(ctx context.Context, cfg realm.Config) error
	DeleteRealm(ctx context.Context, realmName string) error
	CreateDefaultClient(ctx context.Context, cfg realm.Config) error

	CreateUser(ctx context.Context, params CreateUserParams) (AdminUser, error)
	GetUserByUsername(ctx context.Context, username string) (AdminUser, error)
	GetUserByEmail(ctx context.Context, email string) (AdminUser, error)
	UpdateUser(ctx context.Context, userID string, params UpdateUserParams) error
	DeleteUser(ctx context.Context, userID string) error
	SetUserPassword(ctx context.Context, userID, password string, temporary bool) error
	SendVerifyEmail(ctx context.Context, userID string) error
	SendRequiredActionsEmail(ctx context.Context, userID string, actions []string) error
	RemoveTOTP(ctx context.Context, userID string) error
	DeleteCredential(ctx context.Context, userID, credentialID string) error
	LogoutAllSessions(ctx context.Context, userID string) error
}

// realmCreatePayload is the provider realm-representation body, populated
// with the standard realm-creation defaults applied to every new realm.
type realmCreatePayload struct {
	Realm                  string `json:"realm"`
	Enabled                bool   `json:"enabled"`
	LoginWithEmailAllowed  bool   `json:"loginWithEmailAllowed"`
	DuplicateEmailsAllowed bool   `json:"duplicateEmailsAllowed"`
	ResetPasswordAllowed   bool   `json:"resetPasswordAllowed"`
	EditUsernameAllowed    bool   `json:"editUsernameAllowed"`
	BruteForceProtected    bool   `json:"bruteForceProtected"`
	PasswordPolicy         string `json:"passwordPolicy"`
	DefaultLocale          string `json:"defaultLocale"`
}

const defaultPasswordPolicy = "length(12) and upperCase(2) and lowerCase(2) and digits(2) and specialChars(2)"

// CreateRealm provisions a new realm at the provider with the
// standard realm-creation defaults applied. Authenticates against the
// admin/master realm, never the realm being created.
func (r *RealmAdapter) CreateRealm(ctx context.Context, cfg realm.Config) error {
	token, err := r.adminToken(ctx)
	if err != nil {
		return err
	}

	payload := realmCreatePayload{
		Realm:                  cfg.RealmName,
		Enabled:                true,
		LoginWithEmailAllowed:  true,
		DuplicateEmailsAllowed: false,
		ResetPasswordAllowed:   true,
		EditUsernameAllowed:    false,
		BruteForceProtected:    true,
		PasswordPolicy:         defaultPasswordPolicy,
		DefaultLocale:          "en",
	}

	return r.postJSON(ctx, r.baseURL+"/admin/realms", token, payload, nil)
}

// DeleteRealm removes a realm at the provider, used for best-effort
// cleanup when realm provisioning fails partway through.
func (r *RealmAdapter) DeleteRealm(ctx context.Context, realmName string) error {
	token, err := r.adminToken(ctx)
	if err != nil {
		return err
	}
	return r.deleteRequest(ctx, r.baseURL+"/admin/realms/"+realmName, token)
}

type clientCreatePayload struct {
	ClientID     string `json:"clientId"`
	Secret       string `json:"secret,omitempty"`
	PublicClient bool   `json:"publicClient"`
	Enabled      bool   `json:"enabled"`
}

// CreateDefaultClient creates the realm's primary OIDC client.
func (r *RealmAdapter) CreateDefaultClient(ctx context.Context, cfg realm.Config) error {
	token, err := r.adminToken(ctx)
	if err != nil {
		return err
	}

	payload := clientCreatePayload{
		ClientID:     cfg.ClientID,
		PublicClient: cfg.IsPublicClient(),
		Enabled:      true,
	}

	return r.postJSON(ctx, r.baseURL+"/admin/realms/"+cfg.RealmName+"/clients", token, payload, nil)
}

type userPayload struct {
	ID            string `json:"id,omitempty"`
	Username      string `json:"username,omitempty"`
	Email         string `json:"email,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	EmailVerified *bool  `json:"emailVerified,omitempty"`
	Enabled       *bool  `json:"enabled,omitempty"`
	CreatedAt     int64  `json:"createdTimestamp,omitempty"`
}

func (u userPayload) toAdminUser() AdminUser {
	au := AdminUser{
		ID: u.ID, Username: u.Username, Email: u.Email,
		FirstName: u.FirstName, LastName: u.LastName,
	}
	if u.EmailVerified != nil {
		au.EmailVerified = *u.EmailVerified
	}
	if u.Enabled != nil {
		au.Enabled = *u.Enabled
	}
	return au
}

// CreateUser creates a user record at the provider and returns it with its
// provider-assigned id populated via a follow-up lookup.
func (r *RealmAdapter) CreateUser(ctx context.Context, params CreateUserParams) (AdminUser, error) {
	token, err := r.adminToken(ctx)
	if err != nil {
		return AdminUser{}, err
	}

	emailVerified, enabled := params.EmailVerified, params.Enabled
	payload := userPayload{
		Username: params.Username, Email: params.Email,
		FirstName: params.FirstName, LastName: params.LastName,
		EmailVerified: &emailVerified, Enabled: &enabled,
	}

	if err := r.postJSON(ctx, r.adminURL("/users"), token, payload, nil); err != nil {
		return AdminUser{}, err
	}

	return r.GetUserByUsername(ctx, params.Username)
}

// GetUserByUsername looks up a user by exact username.
func (r *RealmAdapter) GetUserByUsername(ctx context.Context, username string) (AdminUser, error) {
	return r.findUser(ctx, "username", username)
}

// GetUserByEmail looks up a user by exact email.
func (r *RealmAdapter) GetUserByEmail(ctx context.Context, email string) (AdminUser, error) {
	return r.findUser(ctx, "email", email)
}

func (r *RealmAdapter) findUser(ctx context.Context, field, value string) (AdminUser, error) {
	token, err := r.adminToken(ctx)
	if err != nil {
		return AdminUser{}, err
	}

	var results []userPayload
	query := url.Values{}
	query.Set(field, value)
	query.Set("exact", "true")
	endpoint := r.adminURL("/users?" + query.Encode())
	if err := r.getJSON(ctx, endpoint, token, &results); err != nil {
		return AdminUser{}, err
	}
	if len(results) == 0 {
		return AdminUser{}, ErrRealmNotFound
	}
	return results[0].toAdminUser(), nil
}

// UpdateUser applies a partial update to a provider user record.
func (r *RealmAdapter) UpdateUser(ctx context.Context, userID string, params UpdateUserParams) error {
	token, err := r.adminToken(ctx)
	if err != nil {
		return err
	}

	payload := userPayload{ID: userID}
	if params.Email != nil {
		payload.Email = *params.Email
	}
	if params.FirstName != nil {
		payload.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		payload.LastName = *params.LastName
	}
	payload.EmailVerified = params.EmailVerified
	payload.Enabled = params.Enabled

	return r.putJSON(ctx, r.adminURL("/users/"+userID), token, payload)
}

// DeleteUser deletes a user at the provider.
func (r *RealmAdapter) DeleteUser(ctx context.Context, userID string) error {
	token, err := r.adminToken(ctx)
	if err != nil {
		return err
	}
	return r.deleteRequest(ctx, r.adminURL("/users/"+userID), token)
}

type credentialPayload struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// SetUserPassword resets a user's password, optionally marking it
// temporary (forcing a change on next login).
func (r *RealmAdapter) SetUserPassword(ctx context.Context, userID, password string, temporary bool) error {
	token, err := r.adminToken(ctx)
	if err != nil {
		return err
	}
	payload := credentialPayload{Type: "password", Value: password, Temporary: temporary}
	return r.putJSON(ctx, r.adminURL("/users/"+userID+"/reset-password"), token, payload)
}

// SendVerifyEmail triggers the provider's email-verification flow.
func (r *RealmAdapter) SendVerifyEmail(ctx context.Context, userID string) error {
	token, err := r.adminToken(ctx)
	if err != nil {
		return err
	}
	return r.putJSON(ctx, r.adminURL("/users/"+userID+"/send-verify-email"), token, nil)
}

// SendRequiredActionsEmail triggers the provider's required-actions email
// (e.g. ["UPDATE_PASSWORD", "VERIFY_EMAIL"]).
func (r *RealmAdapter) SendRequiredActionsEmail(ctx context.Context, userID string, actions []string) error {
	token, err := r.adminToken(ctx)
	if err != nil {
		return err
	}
	return r.putJSON(ctx, r.adminURL("/users/"+userID+"/execute-actions-email"), token, actions)
}

// RemoveTOTP removes every OTP credential registered for a user.
func (r *RealmAdapter) RemoveTOTP(ctx context.Context, userID string) error {
	token, err := r.adminToken(ctx)
	if err != nil {
		return err
	}
	return r.deleteRequest(ctx, r.adminURL("/users/"+userID+"/credentials/totp"), token)
}

// DeleteCredential removes a specific credential (e.g. a single WebAuthn
// key) by its provider-assigned id.
func (r *RealmAdapter) DeleteCredential(ctx context.Context, userID, credentialID string) error {
	token, err := r.adminToken(ctx)
	if err != nil {
		return err
	}
	return r.deleteRequest(ctx, r.adminURL("/users/"+userID+"/credentials/"+credentialID), token)
}

// LogoutAllSessions invalidates every active session for a user.
func (r *RealmAdapter) LogoutAllSessions(ctx context.Context, userID string) error {
	token, err := r.adminToken(ctx)
	if err != nil {
		return err
	}
	return r.postJSON(ctx, r.adminURL("/users/"+userID+"/logout"), token, nil, nil)
}

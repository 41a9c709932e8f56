package credentials

import "time"

// TokenBundle is the provider's token-endpoint response, re-exported here
// so callers of Provider never need to import package idp directly.
type TokenBundle struct {
	AccessToken      string
	RefreshToken     string
	IDToken          string
	TokenType        string
	ExpiresIn        int
	RefreshExpiresIn int
}

// Claims is the subset of decoded-token claims Login needs to identify the
// caller, independent of the richer idp.Claims shape.
type Claims struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	Username  string
}

// AdminUser mirrors idp.AdminUser, trimmed to the fields this package reads.
type AdminUser struct {
	ID            string
	Email         string
	EmailVerified bool
}

// LoginRequest is the password-grant login request body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by Login and Refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// RefreshRequest is the refresh-token exchange request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest is the session-termination request body.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ForgotPasswordRequest is the password-reset request body. The response is
// always success regardless of whether email matches an account, so the
// caller cannot enumerate registered addresses.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries the link token issued (and logged) by
// ForgotPassword and
// the new password to set.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// VerifyEmailRequest carries the link token issued (and logged) by
// SendVerifyEmail.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// EnrollTOTPResponse returns the pending secret in every form an
// authenticator app needs: raw (manual entry), as an otpauth:// URI, and as
// a scannable QR code.
type EnrollTOTPResponse struct {
	Secret      string `json:"secret"`
	OTPAuthURI  string `json:"otpauth_uri"`
	QRCodeImage string `json:"qr_code_image"`
}

// ConfirmTOTPRequest carries the code read off the authenticator app during
// enrollment.
type ConfirmTOTPRequest struct {
	Code string `json:"code"`
}

// ConfirmTOTPResponse returns the one-time set of recovery codes; only
// their hashes are retained server-side, so this is the caller's only
// chance to see them.
type ConfirmTOTPResponse struct {
	RecoveryCodes []string `json:"recovery_codes"`
}

// linkTokenPayload is the signed payload embedded in forgot-password and
// verify-email links, parsed with pkg/token.
type linkTokenPayload struct {
	Purpose   string    `json:"purpose"`
	UserID    string    `json:"user_id"` // provider-side admin user id
	TenantID  string    `json:"tenant_id"`
	IssuedAt  time.Time `json:"issued_at"`
}

const (
	linkPurposeResetPassword = "reset_password"
	linkPurposeVerifyEmail   = "verify_email"
)

const linkTokenTTL = 30 * time.Minute

func (p linkTokenPayload) expired(now time.Time) bool {
	return now.Sub(p.IssuedAt) > linkTokenTTL
}

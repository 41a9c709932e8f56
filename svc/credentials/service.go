package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authcore/identitymap"
	"github.com/dmitrymomot/authcore/internal/apperr"
	"github.com/dmitrymomot/authcore/internal/crypto/secretbox"
	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/qrcode"
	"github.com/dmitrymomot/authcore/pkg/token"
	"github.com/dmitrymomot/authcore/pkg/totp"
	"github.com/dmitrymomot/authcore/realm"
)

// ExternalProvider is the identity-provider namespace identitymap mappings
// are keyed under, matching pipeline.ExternalProvider.
const ExternalProvider = "keycloak"

const recoveryCodeCount = 10

// Options configures the Service.
type Options struct {
	// AppKey seals TOTP secrets the same way realm.Options.AppKey seals
	// client secrets: process-wide half of the secretbox compound key.
	AppKey []byte

	// LinkTokenSecret signs the short-lived forgot-password/verify-email
	// link tokens. Distinct from AppKey so link-token compromise never
	// exposes sealed TOTP secrets and vice versa.
	LinkTokenSecret string

	// Issuer is embedded in the TOTP otpauth:// URI (the name shown above
	// the account in an authenticator app).
	Issuer string
}

// Service implements the login/refresh/logout/reset/verify/TOTP surface.
type Service struct {
	realms   RealmSource
	provider Provider
	identity IdentityStore
	log      *slog.Logger
	opts     Options
}

// New constructs a Service.
func New(realms RealmSource, provider Provider, identity IdentityStore, log *slog.Logger, opts Options) *Service {
	if log == nil {
		log = slog.Default()
	}
	if opts.Issuer == "" {
		opts.Issuer = "authcore"
	}
	return &Service{realms: realms, provider: provider, identity: identity, log: log, opts: opts}
}

// realmAndSecret resolves tenantID's realm and its unsealed client secret
// in one call, the first step of every operation below.
func (s *Service) realmAndSecret(ctx context.Context, tenantID ids.ID) (realm.Config, string, error) {
	cfg, err := s.realms.GetRealmByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, apperr.ErrRealmNotConfigured) {
			return realm.Config{}, "", ErrRealmNotConfigured
		}
		return realm.Config{}, "", errors.Join(ErrStorageFailure, err)
	}
	secret, err := s.realms.OpenClientSecret(ctx, cfg)
	if err != nil {
		return realm.Config{}, "", errors.Join(ErrStorageFailure, err)
	}
	return cfg, secret, nil
}

// Login authenticates username/password against tenantID's realm and maps
// the resulting subject onto an internal identity.
func (s *Service) Login(ctx context.Context, tenantID ids.ID, req LoginRequest) (TokenResponse, error) {
	if req.Username == "" || req.Password == "" {
		return TokenResponse{}, errors.Join(ErrValidation, errors.New("credentials: username and password are required"))
	}

	cfg, secret, err := s.realmAndSecret(ctx, tenantID)
	if err != nil {
		return TokenResponse{}, err
	}

	bundle, err := s.provider.Authenticate(ctx, cfg, secret, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCredential) {
			return TokenResponse{}, ErrInvalidCredentials
		}
		return TokenResponse{}, errors.Join(ErrExternalServiceFailure, err)
	}

	claims, err := s.provider.DecodeToken(ctx, cfg, secret, bundle.AccessToken)
	if err != nil {
		return TokenResponse{}, errors.Join(ErrExternalServiceFailure, err)
	}

	user, err := s.identity.UpsertFromClaims(ctx, ExternalProvider, claims.Subject, &tenantID, identitymap.Claims{
		Email:     claims.Email,
		Username:  claims.Username,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	})
	if err != nil {
		return TokenResponse{}, errors.Join(ErrStorageFailure, err)
	}
	if !user.IsActive {
		return TokenResponse{}, apperr.ErrUserDisabled
	}

	return tokenResponseFrom(bundle), nil
}

// Refresh exchanges a refresh token for a new bundle, without re-running
// identity mapping: the mapping established at Login still holds.
func (s *Service) Refresh(ctx context.Context, tenantID ids.ID, req RefreshRequest) (TokenResponse, error) {
	if req.RefreshToken == "" {
		return TokenResponse{}, errors.Join(ErrValidation, errors.New("credentials: refresh_token is required"))
	}

	cfg, secret, err := s.realmAndSecret(ctx, tenantID)
	if err != nil {
		return TokenResponse{}, err
	}

	bundle, err := s.provider.RefreshToken(ctx, cfg, secret, req.RefreshToken)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidToken) {
			return TokenResponse{}, ErrInvalidToken
		}
		return TokenResponse{}, errors.Join(ErrExternalServiceFailure, err)
	}
	return tokenResponseFrom(bundle), nil
}

// Logout revokes a refresh token at the provider, ending the session it
// belongs to.
func (s *Service) Logout(ctx context.Context, tenantID ids.ID, req LogoutRequest) error {
	if req.RefreshToken == "" {
		return errors.Join(ErrValidation, errors.New("credentials: refresh_token is required"))
	}

	cfg, secret, err := s.realmAndSecret(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := s.provider.Logout(ctx, cfg, secret, req.RefreshToken); err != nil {
		return errors.Join(ErrExternalServiceFailure, err)
	}
	return nil
}

// ForgotPassword issues a reset-password link token for email, if an
// account exists for it. Always succeeds regardless of match so the caller
// cannot enumerate registered addresses; the link itself is logged in
// place of being emailed, since no mail transport is wired into this
// module.
func (s *Service) ForgotPassword(ctx context.Context, tenantID ids.ID, req ForgotPasswordRequest) error {
	if req.Email == "" {
		return errors.Join(ErrValidation, errors.New("credentials: email is required"))
	}

	cfg, secret, err := s.realmAndSecret(ctx, tenantID)
	if err != nil {
		return err
	}

	user, err := s.provider.GetUserByEmail(ctx, cfg, secret, req.Email)
	if err != nil {
		// idp's RealmAdapter reports "no such user" as ErrRealmNotFound
		// (aliased to apperr.ErrRealmNotConfigured); swallow it here to
		// avoid leaking enumeration through the response.
		if errors.Is(err, apperr.ErrRealmNotConfigured) {
			return nil
		}
		return errors.Join(ErrExternalServiceFailure, err)
	}

	link, err := s.signLinkToken(linkPurposeResetPassword, user.ID, tenantID)
	if err != nil {
		return fmt.Errorf("credentials: sign reset link: %w", err)
	}

	s.log.InfoContext(ctx, "credentials: password reset link issued",
		slog.String("email", req.Email),
		logger.Event("password_reset_requested"),
		slog.String("link_token", link),
	)
	return nil
}

// ResetPassword verifies a forgot-password link token and sets the new
// password at the provider.
func (s *Service) ResetPassword(ctx context.Context, tenantID ids.ID, req ResetPasswordRequest) error {
	if req.Token == "" || req.Password == "" {
		return errors.Join(ErrValidation, errors.New("credentials: token and password are required"))
	}

	payload, err := s.parseLinkToken(req.Token, linkPurposeResetPassword, tenantID)
	if err != nil {
		return err
	}

	cfg, secret, err := s.realmAndSecret(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := s.provider.SetUserPassword(ctx, cfg, secret, payload.UserID, req.Password); err != nil {
		return errors.Join(ErrExternalServiceFailure, err)
	}
	return nil
}

// SendVerifyEmail issues a verify-email link token for the given provider
// user id, logged in place of being emailed (see ForgotPassword).
func (s *Service) SendVerifyEmail(ctx context.Context, tenantID ids.ID, providerUserID string) error {
	link, err := s.signLinkToken(linkPurposeVerifyEmail, providerUserID, tenantID)
	if err != nil {
		return fmt.Errorf("credentials: sign verify-email link: %w", err)
	}

	s.log.InfoContext(ctx, "credentials: verify-email link issued",
		slog.String("provider_user_id", providerUserID),
		logger.Event("verify_email_requested"),
		slog.String("link_token", link),
	)
	return nil
}

// VerifyEmail verifies a verify-email link token and marks the provider
// user's email verified.
func (s *Service) VerifyEmail(ctx context.Context, tenantID ids.ID, req VerifyEmailRequest) error {
	if req.Token == "" {
		return errors.Join(ErrValidation, errors.New("credentials: token is required"))
	}

	payload, err := s.parseLinkToken(req.Token, linkPurposeVerifyEmail, tenantID)
	if err != nil {
		return err
	}

	cfg, secret, err := s.realmAndSecret(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := s.provider.MarkEmailVerified(ctx, cfg, secret, payload.UserID); err != nil {
		return errors.Join(ErrExternalServiceFailure, err)
	}
	return nil
}

// EnrollTOTP generates a new TOTP secret, seals it, and stashes it in the
// caller's metadata as pending until ConfirmTOTP validates a code against
// it.
func (s *Service) EnrollTOTP(ctx context.Context, internalUserID ids.ID, accountName string) (EnrollTOTPResponse, error) {
	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return EnrollTOTPResponse{}, fmt.Errorf("credentials: generate totp secret: %w", err)
	}

	uri, err := totp.GetTOTPURI(totp.TOTPParams{Secret: secret, AccountName: accountName, Issuer: s.opts.Issuer})
	if err != nil {
		return EnrollTOTPResponse{}, fmt.Errorf("credentials: build totp uri: %w", err)
	}

	qr, err := qrcode.GenerateBase64Image(uri, 0)
	if err != nil {
		return EnrollTOTPResponse{}, fmt.Errorf("credentials: render totp qr code: %w", err)
	}

	sealed, err := secretbox.Seal(s.opts.AppKey, userKeyMaterial(internalUserID), secret)
	if err != nil {
		return EnrollTOTPResponse{}, fmt.Errorf("credentials: seal totp secret: %w", err)
	}

	if err := s.setMetadataKey(ctx, internalUserID, "totp_pending_secret", sealed); err != nil {
		return EnrollTOTPResponse{}, err
	}

	return EnrollTOTPResponse{Secret: secret, OTPAuthURI: uri, QRCodeImage: qr}, nil
}

// ConfirmTOTP validates code against the pending secret from EnrollTOTP,
// promotes it to confirmed, and issues one-time recovery codes.
func (s *Service) ConfirmTOTP(ctx context.Context, internalUserID ids.ID, req ConfirmTOTPRequest) (ConfirmTOTPResponse, error) {
	if req.Code == "" {
		return ConfirmTOTPResponse{}, errors.Join(ErrValidation, errors.New("credentials: code is required"))
	}

	user, err := s.identity.GetByInternalId(ctx, internalUserID)
	if err != nil {
		return ConfirmTOTPResponse{}, errors.Join(ErrStorageFailure, err)
	}

	sealed, _ := user.Metadata["totp_pending_secret"].(string)
	if sealed == "" {
		return ConfirmTOTPResponse{}, errors.Join(ErrValidation, ErrTOTPNotPending)
	}

	secret, err := secretbox.Open(s.opts.AppKey, userKeyMaterial(internalUserID), sealed)
	if err != nil {
		return ConfirmTOTPResponse{}, fmt.Errorf("credentials: open pending totp secret: %w", err)
	}

	ok, err := totp.ValidateTOTP(secret, req.Code)
	if err != nil {
		return ConfirmTOTPResponse{}, errors.Join(ErrValidation, err)
	}
	if !ok {
		return ConfirmTOTPResponse{}, errors.Join(ErrValidation, ErrTOTPInvalidCode)
	}

	codes, err := totp.GenerateRecoveryCodes(recoveryCodeCount)
	if err != nil {
		return ConfirmTOTPResponse{}, fmt.Errorf("credentials: generate recovery codes: %w", err)
	}
	hashed := make([]any, len(codes))
	for i, code := range codes {
		hashed[i] = totp.HashRecoveryCode(code)
	}

	metadata := cloneMetadata(user.Metadata)
	delete(metadata, "totp_pending_secret")
	metadata["totp_secret"] = sealed
	metadata["totp_recovery_codes"] = hashed
	if err := s.identity.SetMetadata(ctx, internalUserID, metadata); err != nil {
		return ConfirmTOTPResponse{}, errors.Join(ErrStorageFailure, err)
	}

	return ConfirmTOTPResponse{RecoveryCodes: codes}, nil
}

// RemoveTOTP removes TOTP at the provider and clears local TOTP metadata.
func (s *Service) RemoveTOTP(ctx context.Context, tenantID ids.ID, internalUserID ids.ID, providerUserID string) error {
	cfg, secret, err := s.realmAndSecret(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := s.provider.RemoveTOTP(ctx, cfg, secret, providerUserID); err != nil {
		return errors.Join(ErrExternalServiceFailure, err)
	}

	user, err := s.identity.GetByInternalId(ctx, internalUserID)
	if err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	metadata := cloneMetadata(user.Metadata)
	delete(metadata, "totp_pending_secret")
	delete(metadata, "totp_secret")
	delete(metadata, "totp_recovery_codes")
	if err := s.identity.SetMetadata(ctx, internalUserID, metadata); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

func (s *Service) setMetadataKey(ctx context.Context, internalUserID ids.ID, key string, value any) error {
	user, err := s.identity.GetByInternalId(ctx, internalUserID)
	if err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	metadata := cloneMetadata(user.Metadata)
	metadata[key] = value
	if err := s.identity.SetMetadata(ctx, internalUserID, metadata); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

func cloneMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func tokenResponseFrom(bundle TokenBundle) TokenResponse {
	return TokenResponse{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		TokenType:    bundle.TokenType,
		ExpiresIn:    bundle.ExpiresIn,
	}
}

func (s *Service) signLinkToken(purpose, providerUserID string, tenantID ids.ID) (string, error) {
	return token.GenerateToken(linkTokenPayload{
		Purpose:  purpose,
		UserID:   providerUserID,
		TenantID: tenantID.String(),
		IssuedAt: time.Now(),
	}, s.opts.LinkTokenSecret)
}

func (s *Service) parseLinkToken(raw, wantPurpose string, tenantID ids.ID) (linkTokenPayload, error) {
	payload, err := token.ParseToken[linkTokenPayload](raw, s.opts.LinkTokenSecret)
	if err != nil {
		return linkTokenPayload{}, ErrInvalidToken
	}
	if payload.Purpose != wantPurpose || payload.TenantID != tenantID.String() {
		return linkTokenPayload{}, ErrInvalidToken
	}
	if payload.expired(time.Now()) {
		return linkTokenPayload{}, ErrInvalidToken
	}
	return payload, nil
}

// userKeyMaterial derives the per-user half of the secretbox compound key
// from the user's own internal id, mirroring realm.realmKeyMaterial so
// that sealing a TOTP secret needs no separate per-user key table.
func userKeyMaterial(userID ids.ID) []byte {
	u := [16]byte(userID)
	material := make([]byte, secretbox.KeySize)
	for i := range material {
		material[i] = u[i%len(u)]
	}
	return material
}

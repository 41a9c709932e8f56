package realm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authcore/internal/apperr"
	"github.com/dmitrymomot/authcore/internal/crypto/secretbox"
	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/pkg/feature"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/slug"
)

const (
	// AllowLegacySecretsFlag gates acceptance of unsealed plaintext client
	// secrets read from storage.
	AllowLegacySecretsFlag = "realm.allow-legacy-secrets"

	defaultRealmCacheTTL     = time.Hour
	defaultPublicKeyCacheTTL = time.Hour
)

// Options configures the Service.
type Options struct {
	// CacheAdapter does not read these two fields: it caches realm configs
	// and signing keys for a fixed hour. PublicKeyCacheTTL is copied into
	// the PublicKeyTTL of realms created by this Service.
	RealmCacheTTL     time.Duration // realm.cache.ttl, default 3600s
	PublicKeyCacheTTL time.Duration // public-key.cache.ttl, default 3600s

	// AppKey/unused realm key pairs used to seal/open ClientSecretRef.
	// AppKey is process-wide; each realm additionally derives against its
	// own realm id as the "realm key" half of the compound key, so one
	// realm's sealed secret cannot be opened using another realm's id.
	AppKey []byte
}

// Service implements the Realm Registry.
type Service struct {
	store    Store
	cache    Cache
	provider Provider
	flags    feature.Provider
	log      *slog.Logger
	opts     Options
}

// New constructs a realm Service. flags may be nil, in which case legacy
// plaintext secrets are always rejected (the safe default).
func New(store Store, cache Cache, provider Provider, flags feature.Provider, log *slog.Logger, opts Options) *Service {
	if opts.RealmCacheTTL <= 0 {
		opts.RealmCacheTTL = defaultRealmCacheTTL
	}
	if opts.PublicKeyCacheTTL <= 0 {
		opts.PublicKeyCacheTTL = defaultPublicKeyCacheTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, cache: cache, provider: provider, flags: flags, log: log, opts: opts}
}

func tenantCacheKey(tenantID ids.ID) string {
	return "realm:tenant:" + tenantID.String()
}

// GetRealmByTenant resolves a tenant's realm configuration, cache-first.
func (s *Service) GetRealmByTenant(ctx context.Context, tenantID ids.ID) (Config, error) {
	key := tenantCacheKey(tenantID)

	if cfg, ok := s.cache.GetConfig(ctx, key); ok {
		return cfg, nil
	}

	cfg, err := s.store.GetByTenantID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Config{}, ErrNotConfigured
		}
		return Config{}, errors.Join(ErrStorageFailure, err)
	}

	s.cache.SetConfig(ctx, key, cfg)
	return cfg, nil
}

// GetRealmById resolves a realm configuration by its own id.
func (s *Service) GetRealmById(ctx context.Context, realmID ids.ID) (Config, error) {
	key := "realm:id:" + realmID.String()

	if cfg, ok := s.cache.GetConfig(ctx, key); ok {
		return cfg, nil
	}

	cfg, err := s.store.GetByID(ctx, realmID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Config{}, ErrNotConfigured
		}
		return Config{}, errors.Join(ErrStorageFailure, err)
	}

	s.cache.SetConfig(ctx, key, cfg)
	return cfg, nil
}

// RegisterPlatformRealm installs the platform-admin realm in the cache only;
// it is never written to the database.
func (s *Service) RegisterPlatformRealm(ctx context.Context, cfg Config) {
	cfg.TenantID = nil
	cfg.Status = StatusActive
	s.cache.SetConfig(ctx, "realm:id:"+cfg.ID.String(), cfg)
}

// CreateTenantRealm provisions a new realm for a tenant: pre-checks for
// conflicts, creates the remote realm and default client, then persists the
// row. On provider failure, no DB row is written and a best-effort remote
// cleanup is attempted.
func (s *Service) CreateTenantRealm(ctx context.Context, tenantID ids.ID, params CreateParams) (Config, error) {
	if _, err := s.store.GetByTenantID(ctx, tenantID); err == nil {
		return Config{}, ErrConflict
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return Config{}, errors.Join(ErrStorageFailure, err)
	}

	realmName := params.RealmName
	if realmName == "" {
		realmName = slug.Make(params.DisplayName)
	}

	if _, err := s.store.GetByProviderAndName(ctx, params.ProviderServerURL, realmName); err == nil {
		return Config{}, ErrConflict
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return Config{}, errors.Join(ErrStorageFailure, err)
	}

	algorithms := params.SigningAlgorithms
	if len(algorithms) == 0 {
		algorithms = DefaultSigningAlgorithms
	}

	cfg := Config{
		ID:                ids.New(),
		TenantID:           &tenantID,
		RealmName:          realmName,
		DisplayName:        params.DisplayName,
		ClientID:           params.ClientID,
		ProviderServerURL:  params.ProviderServerURL,
		SigningAlgorithms:  algorithms,
		ExpectedAudience:   params.ExpectedAudience,
		ExpectedIssuer:     params.ExpectedIssuer,
		VerifySignature:    true,
		VerifyExp:          true,
		VerifyNbf:          true,
		VerifyIat:          true,
		VerifyAudience:     params.ExpectedAudience != nil,
		VerifyIssuer:       params.ExpectedIssuer != nil,
		PublicKeyTTL:       s.opts.PublicKeyCacheTTL,
		Status:             StatusActive,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	if params.ClientSecret != "" {
		sealed, err := secretbox.Seal(s.opts.AppKey, realmKeyMaterial(cfg.ID), params.ClientSecret)
		if err != nil {
			return Config{}, fmt.Errorf("realm: seal client secret: %w", err)
		}
		cfg.ClientSecretRef = sealed
	}

	if err := s.provider.CreateRealm(ctx, cfg); err != nil {
		return Config{}, errors.Join(ErrExternalServiceFailure, err)
	}

	if err := s.provider.CreateDefaultClient(ctx, cfg); err != nil {
		// Best-effort cleanup of the partial remote realm; the DB row is
		// never written on this path.
		if cleanupErr := s.provider.DeleteRealm(ctx, cfg.ProviderServerURL, cfg.RealmName); cleanupErr != nil {
			s.log.Warn("failed to clean up partially created realm",
				logger.Error(cleanupErr),
				slog.String("realm_name", cfg.RealmName),
			)
		}
		return Config{}, errors.Join(ErrExternalServiceFailure, err)
	}

	if err := s.store.Insert(ctx, cfg); err != nil {
		return Config{}, errors.Join(ErrStorageFailure, err)
	}

	s.cache.DeleteConfig(ctx, tenantCacheKey(tenantID))

	return cfg, nil
}

// UpdateRealm applies a partial update to an existing realm and invalidates
// both the tenant and id cache entries.
func (s *Service) UpdateRealm(ctx context.Context, realmID ids.ID, params UpdateParams) (Config, error) {
	cfg, err := s.store.Update(ctx, realmID, params)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Config{}, ErrNotConfigured
		}
		return Config{}, errors.Join(ErrStorageFailure, err)
	}

	s.invalidate(ctx, cfg)
	return cfg, nil
}

// DisableRealm soft-disables a realm (status=disabled) and invalidates caches.
func (s *Service) DisableRealm(ctx context.Context, realmID ids.ID) error {
	cfg, err := s.store.GetByID(ctx, realmID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrNotConfigured
		}
		return errors.Join(ErrStorageFailure, err)
	}

	if err := s.store.UpdateStatus(ctx, realmID, StatusDisabled); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}

	s.invalidate(ctx, cfg)
	return nil
}

// ListRealms returns every realm row regardless of status.
func (s *Service) ListRealms(ctx context.Context) ([]Config, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}
	return list, nil
}

// SigningKey returns the realm's current RSA signing key, used by the Token
// Validator for local validation. Pure read path: cache-miss falls through
// to the provider's JWKS endpoint.
func (s *Service) SigningKey(ctx context.Context, realmID ids.ID) (SigningKey, error) {
	if key, ok := s.cache.GetSigningKey(ctx, realmID); ok {
		return key, nil
	}

	cfg, err := s.GetRealmById(ctx, realmID)
	if err != nil {
		return SigningKey{}, err
	}

	keys, err := s.provider.FetchJWKS(ctx, cfg)
	if err != nil {
		return SigningKey{}, errors.Join(ErrExternalServiceFailure, err)
	}

	for _, k := range keys {
		s.cache.SetSigningKey(ctx, realmID, k)
		return k, nil
	}

	return SigningKey{}, ErrPublicKeyUnavailable
}

// OpenClientSecret decrypts a realm's sealed client secret. If the stored
// value predates sealing (plain, unsealed), it is accepted only when the
// AllowLegacySecretsFlag feature flag is enabled; every such acceptance is
// logged at WARN with the realm id.
func (s *Service) OpenClientSecret(ctx context.Context, cfg Config) (string, error) {
	if cfg.ClientSecretRef == "" {
		return "", nil
	}

	if !secretbox.IsSealed(cfg.ClientSecretRef) {
		allowed := false
		if s.flags != nil {
			var err error
			allowed, err = s.flags.IsEnabled(ctx, AllowLegacySecretsFlag)
			if err != nil {
				allowed = false
			}
		}
		if !allowed {
			return "", errors.Join(ErrStorageFailure, ErrLegacySecretNotAllowed)
		}
		s.log.Warn("accepted legacy plaintext client secret",
			slog.String("realm_id", cfg.ID.String()),
			logger.Event("legacy_secret_accepted"),
		)
		return cfg.ClientSecretRef, nil
	}

	plain, err := secretbox.Open(s.opts.AppKey, realmKeyMaterial(cfg.ID), cfg.ClientSecretRef)
	if err != nil {
		return "", errors.Join(ErrStorageFailure, err)
	}
	return plain, nil
}

func (s *Service) invalidate(ctx context.Context, cfg Config) {
	if cfg.TenantID != nil {
		s.cache.DeleteConfig(ctx, tenantCacheKey(*cfg.TenantID))
	}
	s.cache.DeleteConfig(ctx, "realm:id:"+cfg.ID.String())
}

// realmKeyMaterial derives the per-realm half of the secretbox compound key
// from the realm's own id, so that sealing is realm-scoped without a
// separate per-realm key table.
func realmKeyMaterial(realmID ids.ID) []byte {
	u := [16]byte(realmID)
	material := make([]byte, secretbox.KeySize)
	for i := range material {
		material[i] = u[i%len(u)]
	}
	return material
}

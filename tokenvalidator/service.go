package tokenvalidator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/pkg/logger"
)

const defaultIntrospectionCacheTTL = 300 * time.Second

// Options configures the Service.
type Options struct {
	IntrospectionCacheTTL time.Duration // token.introspection.cache.ttl, default 300s
}

// Service implements the Token Validator.
type Service struct {
	realms        RealmSource
	introspection IntrospectionClient
	cache         Cache
	log           *slog.Logger
	opts          Options
}

// New constructs a Service. introspection may be nil, in which case
// StrategyIntrospection always returns ErrIntrospectionNotConfigured and
// StrategySmartFallback returns the local validation error without
// attempting introspection.
func New(realms RealmSource, introspection IntrospectionClient, cache Cache, log *slog.Logger, opts Options) *Service {
	if opts.IntrospectionCacheTTL <= 0 {
		opts.IntrospectionCacheTTL = defaultIntrospectionCacheTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{realms: realms, introspection: introspection, cache: cache, log: log, opts: opts}
}

func tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// Validate authenticates token against the named realm using strategy.
func (s *Service) Validate(ctx context.Context, token string, realmID ids.ID, strategy Strategy) (AuthContext, error) {
	hash := tokenHash(token)
	if s.cache != nil && s.cache.IsRevoked(ctx, hash) {
		return AuthContext{}, ErrTokenRevoked
	}

	switch strategy {
	case StrategyLocal:
		return s.validateLocalStrategy(ctx, token, realmID)
	case StrategyIntrospection:
		return s.validateIntrospection(ctx, token, realmID, hash)
	case StrategySmartFallback:
		return s.validateSmartFallback(ctx, token, realmID, hash)
	default:
		return AuthContext{}, ErrInvalidToken
	}
}

func (s *Service) validateLocalStrategy(ctx context.Context, token string, realmID ids.ID) (AuthContext, error) {
	cfg, err := s.realms.GetRealmById(ctx, realmID)
	if err != nil {
		return AuthContext{}, errors.Join(ErrInvalidToken, err)
	}

	key, err := s.realms.SigningKey(ctx, realmID)
	if err != nil {
		return AuthContext{}, ErrPublicKeyUnavailable
	}

	return validateLocal(token, cfg, key)
}

func (s *Service) validateIntrospection(ctx context.Context, token string, realmID ids.ID, hash string) (AuthContext, error) {
	if s.introspection == nil {
		return AuthContext{}, ErrIntrospectionNotConfigured
	}

	cfg, err := s.realms.GetRealmById(ctx, realmID)
	if err != nil {
		return AuthContext{}, errors.Join(ErrInvalidToken, err)
	}

	var result IntrospectionResult
	if s.cache != nil {
		if cached, ok := s.cache.GetIntrospection(ctx, hash); ok {
			result = cached
		} else {
			clientSecret, secretErr := s.realms.OpenClientSecret(ctx, cfg)
			if secretErr != nil {
				return AuthContext{}, errors.Join(ErrExternalServiceFailure, secretErr)
			}
			result, err = s.introspection.Introspect(ctx, cfg, clientSecret, token)
			if err != nil {
				return AuthContext{}, errors.Join(ErrExternalServiceFailure, err)
			}
			ttl := s.opts.IntrospectionCacheTTL
			if capped := tokenExpiry(time.Unix(result.Exp, 0), time.Now()); capped > 0 && int64(ttl.Seconds()) > capped {
				ttl = time.Duration(capped) * time.Second
			}
			s.cache.SetIntrospection(ctx, hash, result)
		}
	} else {
		clientSecret, secretErr := s.realms.OpenClientSecret(ctx, cfg)
		if secretErr != nil {
			return AuthContext{}, errors.Join(ErrExternalServiceFailure, secretErr)
		}
		result, err = s.introspection.Introspect(ctx, cfg, clientSecret, token)
		if err != nil {
			return AuthContext{}, errors.Join(ErrExternalServiceFailure, err)
		}
	}

	if !result.Active {
		return AuthContext{}, ErrInvalidToken
	}

	return AuthContext{
		Subject:          result.Subject,
		Scope:            result.Scope,
		ExpiresAt:        time.Unix(result.Exp, 0),
		RealmID:          realmID,
		ValidationMethod: MethodIntrospection,
	}, nil
}

// validateSmartFallback attempts local validation first; on any failure
// other than expiry, it retries via introspection when configured, and the
// stricter (introspection) error is surfaced if both fail.
func (s *Service) validateSmartFallback(ctx context.Context, token string, realmID ids.ID, hash string) (AuthContext, error) {
	ac, err := s.validateLocalStrategy(ctx, token, realmID)
	if err == nil {
		return ac, nil
	}
	if errors.Is(err, ErrTokenExpired) {
		return AuthContext{}, err
	}
	if s.introspection == nil {
		return AuthContext{}, err
	}

	s.log.DebugContext(ctx, "local validation failed, falling back to introspection",
		logger.Event("tokenvalidator.smart_fallback"),
		logger.Error(err))

	return s.validateIntrospection(ctx, token, realmID, hash)
}

// Revoke marks a token as revoked for the remainder of its natural
// lifetime (ttlSeconds), so future Validate calls of any strategy fail
// ErrTokenRevoked.
func (s *Service) Revoke(ctx context.Context, token string, ttlSeconds int64) {
	if s.cache == nil {
		return
	}
	s.cache.Revoke(ctx, tokenHash(token), ttlSeconds)
}

// IsFresh reports whether ac was issued no more than maxAge ago, for
// sensitive operations that require a recently-issued token.
func (s *Service) IsFresh(ac AuthContext, maxAge time.Duration) bool {
	return ac.IsFresh(time.Now(), maxAge)
}

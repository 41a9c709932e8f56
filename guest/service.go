package guest

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/authcore/pkg/clientip"
	"github.com/dmitrymomot/authcore/pkg/fingerprint"
	"github.com/dmitrymomot/authcore/pkg/ratelimit"
	"github.com/dmitrymomot/authcore/pkg/useragent"
)

const defaultSessionTTL = 24 * time.Hour

// Service identifies guests by (client IP, device fingerprint), maintains
// their session lifecycle, and enforces the two sliding-window rate
// limits of §4.F.
type Service struct {
	store     Store
	transport *HeaderTransport
	limiters  *limiters
	log       *slog.Logger
	opts      Options
}

// New constructs a Service. rateLimitStore backs both sliding windows.
func New(store Store, rateLimitStore ratelimit.SlidingWindowStore, log *slog.Logger, opts Options) (*Service, error) {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.RateLimit == (RateLimitPolicy{}) {
		opts.RateLimit = DefaultRateLimitPolicy()
	}
	if log == nil {
		log = slog.Default()
	}

	lims, err := newLimiters(rateLimitStore, opts.RateLimit, log)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:     store,
		transport: NewHeaderTransport(),
		limiters:  lims,
		log:       log,
		opts:      opts,
	}, nil
}

// deviceType classifies the caller's User-Agent (mobile, desktop, tablet,
// bot, unknown) for the session record, tolerating unparseable strings.
func deviceType(r *http.Request) string {
	ua, err := useragent.Parse(r.UserAgent())
	if err != nil {
		return "unknown"
	}
	return ua.DeviceType()
}

func generateOpaque() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Identify resolves the guest session for r: it looks up and refreshes
// an existing session presented via X-Guest-Session, or mints a new one
// when absent, expired, or invalid. It applies both rate-limit counters
// and writes the (possibly new) session header onto w before returning.
func (s *Service) Identify(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	clientIP := clientip.GetIP(r)
	fp := fingerprint.Generate(r)
	device := deviceType(r)

	sess, err := s.lookup(ctx, r)
	if err != nil || sess == nil {
		sess, err = s.create(ctx, clientIP, fp, device)
		if err != nil {
			return nil, err
		}
	} else {
		now := time.Now()
		sess.State = advance(sess.State, sess.LastSeenAt, now, s.opts.SessionTTL)
		if sess.State == StateExpired {
			sess, err = s.create(ctx, clientIP, fp, device)
			if err != nil {
				return nil, err
			}
		} else {
			sess.LastSeenAt = now
			sess.ExpiresAt = now.Add(s.opts.SessionTTL)
			sess.RequestCount++
			if err := s.store.Update(ctx, sess); err != nil {
				return nil, errors.Join(ErrSessionNotFound, err)
			}
		}
	}

	allowed, err := s.limiters.allow(ctx, clientIP, sess.ID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrRateLimitExceeded
	}

	if err := s.transport.SetToken(w, sess.CombinedID(), s.opts.SessionTTL); err != nil {
		return nil, err
	}

	return sess, nil
}

// lookup reads and validates the presented session header, returning
// (nil, nil) when absent so callers fall through to session creation.
func (s *Service) lookup(ctx context.Context, r *http.Request) (*Session, error) {
	raw, err := s.transport.GetToken(r)
	if err != nil {
		return nil, nil
	}

	id, token, err := splitSessionHeader(raw)
	if err != nil {
		return nil, nil
	}

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil
	}
	if sess.Token != token {
		return nil, ErrTokenMismatch
	}
	return sess, nil
}

func (s *Service) create(ctx context.Context, clientIP, fp, device string) (*Session, error) {
	id, err := generateOpaque()
	if err != nil {
		return nil, err
	}
	token, err := generateOpaque()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &Session{
		ID:            id,
		Token:         token,
		ClientIP:      clientIP,
		UserAgentHash: fp,
		DeviceType:    device,
		State:         StateFresh,
		RequestCount:  1,
		CreatedAt:     now,
		LastSeenAt:    now,
		ExpiresAt:     now.Add(s.opts.SessionTTL),
	}

	if err := s.store.Create(ctx, sess); err != nil {
		return nil, errors.Join(ErrSessionNotFound, err)
	}
	return sess, nil
}

package guest

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/authcore/pkg/ratelimit"
)

// limiters wraps the per-IP and per-session sliding windows, applying the
// policy's fail-open behavior uniformly to both.
type limiters struct {
	perIP      *ratelimit.SlidingWindow
	perSession *ratelimit.SlidingWindow
	policy     RateLimitPolicy
	log        *slog.Logger
}

func newLimiters(store ratelimit.SlidingWindowStore, policy RateLimitPolicy, log *slog.Logger) (*limiters, error) {
	perIP, err := ratelimit.NewSlidingWindow(store, policy.PerIPLimit, policy.PerIPWindow)
	if err != nil {
		return nil, err
	}
	perSession, err := ratelimit.NewSlidingWindow(store, policy.PerSessionLimit, policy.PerSessionWindow)
	if err != nil {
		return nil, err
	}
	return &limiters{perIP: perIP, perSession: perSession, policy: policy, log: log}, nil
}

// allow checks both the per-IP and per-session counters, consuming one
// slot from each. On store failure it fails open (allowing the request,
// logged at WARN) when policy.FailOpen is set, matching the spec's
// availability-over-strictness stance for guest traffic.
func (l *limiters) allow(ctx context.Context, clientIP, sessionID string) (bool, error) {
	ipResult, err := l.perIP.Allow(ctx, "guest:ip:"+clientIP)
	if err != nil {
		return l.onStoreError(ctx, "per-ip rate limiter unavailable", err)
	}
	if !ipResult.Allowed {
		return false, nil
	}

	if sessionID == "" {
		return true, nil
	}

	sessResult, err := l.perSession.Allow(ctx, "guest:session:"+sessionID)
	if err != nil {
		return l.onStoreError(ctx, "per-session rate limiter unavailable", err)
	}
	return sessResult.Allowed, nil
}

func (l *limiters) onStoreError(ctx context.Context, msg string, err error) (bool, error) {
	if l.policy.FailOpen {
		l.log.WarnContext(ctx, "guest: "+msg+", failing open", slog.Any("error", err))
		return true, nil
	}
	return false, err
}

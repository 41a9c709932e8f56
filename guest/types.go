package guest

import "time"

// State is the guest session lifecycle state of §4.F: fresh on first
// contact, active while within its sliding expiry, expired once idle past
// it (at which point a new session is minted rather than resurrected).
type State string

const (
	StateFresh   State = "fresh"
	StateActive  State = "active"
	StateExpired State = "expired"
)

// Name implements statemachine.State.
func (s State) Name() string { return string(s) }

// Session is a guest's persisted identity: no user account, just the
// caller fingerprint that identifies repeat visits and the counters the
// rate limiter consults.
type Session struct {
	ID    string // opaque, server-generated
	Token string // opaque, server-generated, unchanged on refresh

	ClientIP string

	// UserAgentHash is a device fingerprint derived from User-Agent,
	// Accept headers, header order, and client IP (see pkg/fingerprint),
	// not a bare hash of the User-Agent string.
	UserAgentHash string

	// DeviceType is the coarse caller classification parsed from the
	// User-Agent string (mobile, desktop, tablet, bot, unknown).
	DeviceType string

	State State

	RequestCount int64

	CreatedAt    time.Time
	LastSeenAt   time.Time
	ExpiresAt    time.Time
}

// CombinedID joins ID and Token into the X-Guest-Session wire format.
func (s Session) CombinedID() string {
	return s.ID + ":" + s.Token
}

// RateLimitPolicy configures the two sliding-window counters guarding
// guest traffic.
type RateLimitPolicy struct {
	// PerIPLimit/PerIPWindow bound requests from a single client IP,
	// independent of session. Default 100 requests / hour.
	PerIPLimit  int
	PerIPWindow time.Duration

	// PerSessionLimit/PerSessionWindow bound requests carrying the same
	// guest session. Default 300 requests / hour.
	PerSessionLimit  int
	PerSessionWindow time.Duration

	// FailOpen allows traffic through, with a logged warning, when the
	// rate-limit store is unavailable, rather than rejecting every guest
	// request on a cache outage.
	FailOpen bool
}

// DefaultRateLimitPolicy matches the defaults named in §4.F.
func DefaultRateLimitPolicy() RateLimitPolicy {
	return RateLimitPolicy{
		PerIPLimit:       100,
		PerIPWindow:      time.Hour,
		PerSessionLimit:  300,
		PerSessionWindow: time.Hour,
		FailOpen:         true,
	}
}

// Options configures the Service.
type Options struct {
	SessionTTL time.Duration // sliding idle expiry, default 24h
	RateLimit  RateLimitPolicy
}

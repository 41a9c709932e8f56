// Package cache defines the key-value cache substrate shared by every
// component of the authorization core (realm config, public keys, token
// introspection results, identity mappings, permission/role summaries, and
// guest-session rate-limit counters).
//
// The substrate is intentionally narrow: get/set-with-TTL/delete plus a
// prefix-delete for bulk invalidation (e.g. "every cached entry for
// user X"). Components never talk to Redis or an in-memory map directly;
// they depend on this interface and are handed a concrete Store at
// construction.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned by a Store implementation when the underlying
// substrate cannot be reached. Callers on the read path must treat this the
// same as a cache miss (per spec: "a cache-miss behaves identically to a
// cache-disabled system"); callers on the rate-limit path must fail open.
var ErrUnavailable = errors.New("cache: substrate unavailable")

// Store is the key-value cache substrate consumed by every component.
type Store interface {
	// Get returns the raw bytes stored under key, or ok=false on a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a single key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix. Used for bulk
	// invalidation such as InvalidateRole fanning out across cached users.
	DeletePrefix(ctx context.Context, prefix string) error

	// Incr atomically increments the counter at key by 1, creating it with
	// the given TTL if absent, and returns the post-increment value. Used
	// by the guest-session sliding-window rate limiter.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

package idp

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	retryAttempts = 3
	retryBase     = 200 * time.Millisecond
	retryCap      = 2 * time.Second
)

// withRetry wraps fn with a bounded exponential backoff
// (3 attempts, base 200ms, cap 2s). fn must mark transient failures with
// retry.RetryableError; any other error stops retrying immediately. Used
// only for idempotent calls (GET, introspection, public-key/JWKS fetch).
func withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.NewExponential(retryBase)
	backoff = retry.WithMaxRetries(retryAttempts-1, backoff)
	backoff = retry.WithCappedDuration(retryCap, backoff)
	return retry.Do(ctx, backoff, fn)
}

// Package permcache loads a user's roles and permissions from the
// database, caches them per (user, scope), and answers permission checks
// via wildcard matching without a database round trip on the hot path.
//
// Scope is either platform-wide or a specific tenant. Required permission
// codes are "resource:action" pairs; a granted code may wildcard either
// half ("users:*", "*:read", "*:*"). See Matches for the exact rules.
//
// Role grants and revocations must always be written to the database
// before InvalidateUser or InvalidateRole is called, never after.
//
// InvalidateRole fans invalidation out across every affected user either
// concurrently in-process (the default, via pkg/async) or by enqueueing one
// job per user onto a WithInvalidationQueue-configured queue.Enqueuer,
// processed by a queue.Worker registered with NewInvalidationHandler.
package permcache

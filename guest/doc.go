// Package guest implements the guest-session subsystem for
// unauthenticated and mixed authenticated-or-guest traffic: caller
// identification by (client IP, user-agent hash), a fresh/active/expired
// session lifecycle, and the two sliding-window rate-limit counters that
// bound guest request volume. It depends on its collaborators only
// through narrow interfaces declared in this package, the same
// convention followed by realm, identitymap, permcache, tokenvalidator,
// and pipeline.
package guest

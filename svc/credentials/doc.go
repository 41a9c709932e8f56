// Package credentials exposes the HTTP surface a caller authenticates
// through: login, refresh, logout, forgot/reset password, email
// verification, and TOTP enrollment. Credential storage itself lives at
// the identity provider (package idp); this package only orchestrates
// calls against it, maps the result onto an internal identity via
// package identitymap, and seals/opens TOTP secrets with
// internal/crypto/secretbox the same way package realm seals client
// secrets.
package credentials

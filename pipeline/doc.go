// Package pipeline implements the protected-endpoint request pipeline: tenant
// resolution, bearer extraction, realm resolution, token validation, identity
// mapping, and permission enforcement, composed into a single AuthContext
// construction step and exposed both as a library (Pipeline.Authenticate)
// and as chi-compatible HTTP middleware (RequireAuth).
//
// The pipeline depends on its collaborators (realm, tokenvalidator,
// identitymap, permcache) only through the narrow interfaces declared in
// store.go, mirroring the "protocol per component" shape used throughout the
// rest of the module.
package pipeline

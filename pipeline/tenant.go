package pipeline

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/authcore/internal/ids"
	"github.com/dmitrymomot/authcore/pkg/tenant"
)

// tenantPathResolver extracts the tenant identifier from a "/tenant/<id>/..."
// path segment, the third tenant-resolution source by precedence.
var tenantPathResolver = tenant.ResolverFunc(func(r *http.Request) (string, error) {
	path := strings.Trim(r.URL.Path, "/")
	if path == "" {
		return "", nil
	}
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] != "tenant" {
		return "", nil
	}
	return parts[1], nil
})

// newTenantResolver builds the four-source composite resolver in the
// precedence order of §6: header, subdomain, path, query.
func newTenantResolver(opts TenantOptions) tenant.Resolver {
	return tenant.NewCompositeResolver(
		tenant.NewHeaderResolver("X-Tenant-Id"),
		tenant.NewSubdomainResolver(opts.SubdomainSuffix),
		tenantPathResolver,
		tenant.NewQueryResolver("tenant_id"),
	)
}

// resolveTenantID runs the composite resolver and parses its result into an
// internal id. An unresolved tenant (no source matched) returns ids.Nil with
// no error; callers that require a tenant must reject that case themselves
// so that tenant-agnostic endpoints keep working.
func resolveTenantID(r *http.Request, opts TenantOptions) (ids.ID, error) {
	raw, err := newTenantResolver(opts).Resolve(r)
	if err != nil {
		return ids.Nil, ErrMissingTenant
	}
	if raw == "" {
		return ids.Nil, nil
	}

	id, err := ids.Parse(raw)
	if err != nil {
		return ids.Nil, ErrMissingTenant
	}
	return id, nil
}

// ResolveTenant runs the same four-source precedence (header, subdomain,
// path, query) that Pipeline.Authenticate uses internally, exported for
// callers outside the protected-endpoint pipeline (e.g. svc/credentials's
// unauthenticated login/refresh endpoints) that still need to resolve which
// realm a request targets.
func ResolveTenant(r *http.Request, opts TenantOptions) (ids.ID, error) {
	return resolveTenantID(r, opts)
}

package permcache

import (
	"context"

	"github.com/dmitrymomot/authcore/internal/ids"
)

// Store is the persistence contract backing permcache, joining
// user_roles -> role_permissions -> permissions in a single query per
// the permission-loading algorithm.
type Store interface {
	// LoadUserPermissions returns every permission granted to userID via an
	// active (not expired) role assignment in the given scope.
	LoadUserPermissions(ctx context.Context, userID ids.ID, tenantID *ids.ID) ([]Permission, error)

	// LoadUserRoles returns every active role assignment for userID in the
	// given scope.
	LoadUserRoles(ctx context.Context, userID ids.ID, tenantID *ids.ID) ([]Role, error)

	// UsersWithRole returns the internal ids of every user currently holding
	// roleCode in the given scope, used to fan out InvalidateRole.
	UsersWithRole(ctx context.Context, roleCode string, tenantID *ids.ID) ([]ids.ID, error)
}

// Cache holds the two cache-key families
// (perm:<user>:<scope>, roles:<user>:<scope>) behind a single interface
// keyed by the already-rendered scope segment. Permission summaries are
// not cached.
type Cache interface {
	GetPermissions(ctx context.Context, userID ids.ID, scope string) ([]Permission, bool)
	SetPermissions(ctx context.Context, userID ids.ID, scope string, perms []Permission)

	GetRoles(ctx context.Context, userID ids.ID, scope string) ([]Role, bool)
	SetRoles(ctx context.Context, userID ids.ID, scope string, roles []Role)

	// DeleteUser drops every cached key for a user in the given scope
	// (permissions and roles).
	DeleteUser(ctx context.Context, userID ids.ID, scope string)
}

// AuthContextInvalidator is notified when a user's permissions change so
// any cached AuthContext snapshot (built by the request pipeline, §4.F)
// can be dropped in the same pass. Nil is a valid no-op collaborator.
type AuthContextInvalidator interface {
	InvalidateAuthContext(ctx context.Context, userID ids.ID, tenantID *ids.ID)
}

package permcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrymomot/authcore/cache"
	"github.com/dmitrymomot/authcore/internal/ids"
)

const (
	permCacheTTL = 5 * time.Minute

	permPrefix  = "permcache:perm:"
	rolesPrefix = "permcache:roles:"
)

// CacheAdapter implements Cache on top of the shared cache.Store
// substrate, namespacing the permission and role families separately;
// DeleteUser deletes the user's exact key in each family.
type CacheAdapter struct {
	store cache.Store
}

var _ Cache = (*CacheAdapter)(nil)

// NewCacheAdapter wraps store as a permcache Cache.
func NewCacheAdapter(store cache.Store) *CacheAdapter {
	return &CacheAdapter{store: store}
}

func userScopeKey(userID ids.ID, scope string) string {
	return userID.String() + ":" + scope
}

func (c *CacheAdapter) GetPermissions(ctx context.Context, userID ids.ID, scope string) ([]Permission, bool) {
	raw, ok, err := c.store.Get(ctx, permPrefix+userScopeKey(userID, scope))
	if err != nil || !ok {
		return nil, false
	}
	var perms []Permission
	if err := json.Unmarshal(raw, &perms); err != nil {
		return nil, false
	}
	return perms, true
}

func (c *CacheAdapter) SetPermissions(ctx context.Context, userID ids.ID, scope string, perms []Permission) {
	raw, err := json.Marshal(perms)
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, permPrefix+userScopeKey(userID, scope), raw, permCacheTTL)
}

func (c *CacheAdapter) GetRoles(ctx context.Context, userID ids.ID, scope string) ([]Role, bool) {
	raw, ok, err := c.store.Get(ctx, rolesPrefix+userScopeKey(userID, scope))
	if err != nil || !ok {
		return nil, false
	}
	var roles []Role
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, false
	}
	return roles, true
}

func (c *CacheAdapter) SetRoles(ctx context.Context, userID ids.ID, scope string, roles []Role) {
	raw, err := json.Marshal(roles)
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, rolesPrefix+userScopeKey(userID, scope), raw, permCacheTTL)
}

func (c *CacheAdapter) DeleteUser(ctx context.Context, userID ids.ID, scope string) {
	key := userScopeKey(userID, scope)
	_ = c.store.Delete(ctx, permPrefix+key)
	_ = c.store.Delete(ctx, rolesPrefix+key)
}

package identitymap

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrymomot/authcore/cache"
)

const (
	mappingCacheTTL = 30 * time.Minute
	mappingKeyPrefix = "identitymap:"
)

// CacheAdapter implements Cache on top of the shared cache.Store
// substrate, mirroring realm.CacheAdapter's JSON-over-bytes shape.
type CacheAdapter struct {
	store cache.Store
}

var _ Cache = (*CacheAdapter)(nil)

// NewCacheAdapter wraps store as an identitymap Cache.
func NewCacheAdapter(store cache.Store) *CacheAdapter {
	return &CacheAdapter{store: store}
}

func (c *CacheAdapter) Get(ctx context.Context, key string) (User, bool) {
	raw, ok, err := c.store.Get(ctx, mappingKeyPrefix+key)
	if err != nil || !ok {
		return User{}, false
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, false
	}
	return u, true
}

func (c *CacheAdapter) Set(ctx context.Context, key string, user User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, mappingKeyPrefix+key, raw, mappingCacheTTL)
}

func (c *CacheAdapter) Delete(ctx context.Context, key string) {
	_ = c.store.Delete(ctx, mappingKeyPrefix+key)
}

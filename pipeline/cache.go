package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrymomot/authcore/cache"
)

const authContextKeyPrefix = "pipeline:authctx:"

// CacheAdapter implements Cache on top of the shared cache.Store
// substrate, distinct from tokenvalidator.CacheAdapter's introspection
// cache: this one stores the fully-assembled, post-permission-check
// AuthContext.
type CacheAdapter struct {
	store cache.Store
}

var _ Cache = (*CacheAdapter)(nil)

// NewCacheAdapter wraps store as the pipeline's AuthContext cache.
func NewCacheAdapter(store cache.Store) *CacheAdapter {
	return &CacheAdapter{store: store}
}

func (c *CacheAdapter) GetAuthContext(ctx context.Context, tokenHash string) (AuthContext, bool) {
	raw, ok, err := c.store.Get(ctx, authContextKeyPrefix+tokenHash)
	if err != nil || !ok {
		return AuthContext{}, false
	}
	var ac AuthContext
	if err := json.Unmarshal(raw, &ac); err != nil {
		return AuthContext{}, false
	}
	return ac, true
}

func (c *CacheAdapter) SetAuthContext(ctx context.Context, tokenHash string, ac AuthContext, ttl int64) {
	raw, err := json.Marshal(ac)
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, authContextKeyPrefix+tokenHash, raw, time.Duration(ttl)*time.Second)
}

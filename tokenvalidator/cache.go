package tokenvalidator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrymomot/authcore/cache"
)

const (
	introspectionCacheTTL = 60 * time.Second

	introspectionPrefix = "tokenvalidator:introspect:"
	revokedPrefix        = "tokenvalidator:revoked:"
)

// CacheAdapter implements Cache on top of the shared cache.Store
// substrate. The revoked-token entry stores no payload (presence alone
// marks revocation), so it is written with Set as a one-byte marker with
// a TTL.
type CacheAdapter struct {
	store cache.Store
}

var _ Cache = (*CacheAdapter)(nil)

// NewCacheAdapter wraps store as a tokenvalidator Cache.
func NewCacheAdapter(store cache.Store) *CacheAdapter {
	return &CacheAdapter{store: store}
}

func (c *CacheAdapter) GetIntrospection(ctx context.Context, tokenHash string) (IntrospectionResult, bool) {
	raw, ok, err := c.store.Get(ctx, introspectionPrefix+tokenHash)
	if err != nil || !ok {
		return IntrospectionResult{}, false
	}
	var res IntrospectionResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return IntrospectionResult{}, false
	}
	return res, true
}

func (c *CacheAdapter) SetIntrospection(ctx context.Context, tokenHash string, result IntrospectionResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, introspectionPrefix+tokenHash, raw, introspectionCacheTTL)
}

func (c *CacheAdapter) IsRevoked(ctx context.Context, tokenHash string) bool {
	_, ok, err := c.store.Get(ctx, revokedPrefix+tokenHash)
	return err == nil && ok
}

func (c *CacheAdapter) Revoke(ctx context.Context, tokenHash string, ttlSeconds int64) {
	_ = c.store.Set(ctx, revokedPrefix+tokenHash, []byte{1}, time.Duration(ttlSeconds)*time.Second)
}

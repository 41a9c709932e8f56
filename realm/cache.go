package realm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrymomot/authcore/cache"
	"github.com/dmitrymomot/authcore/internal/ids"
)

const (
	configCacheTTL = time.Hour
	signingKeyTTL  = time.Hour

	configKeyPrefix     = "realm:config:"
	signingKeyKeyPrefix = "realm:signing-key:"
)

// CacheAdapter implements Cache on top of the shared cache.Store substrate
// (cache/redis or cache/memory), JSON-encoding the typed values the
// generic byte-oriented substrate doesn't know about.
type CacheAdapter struct {
	store cache.Store
}

var _ Cache = (*CacheAdapter)(nil)

// NewCacheAdapter wraps store as a realm Cache.
func NewCacheAdapter(store cache.Store) *CacheAdapter {
	return &CacheAdapter{store: store}
}

func (c *CacheAdapter) GetConfig(ctx context.Context, key string) (Config, bool) {
	raw, ok, err := c.store.Get(ctx, configKeyPrefix+key)
	if err != nil || !ok {
		return Config{}, false
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, false
	}
	return cfg, true
}

func (c *CacheAdapter) SetConfig(ctx context.Context, key string, cfg Config) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, configKeyPrefix+key, raw, configCacheTTL)
}

func (c *CacheAdapter) DeleteConfig(ctx context.Context, key string) {
	_ = c.store.Delete(ctx, configKeyPrefix+key)
}

func (c *CacheAdapter) GetSigningKey(ctx context.Context, realmID ids.ID) (SigningKey, bool) {
	raw, ok, err := c.store.Get(ctx, signingKeyKeyPrefix+realmID.String())
	if err != nil || !ok {
		return SigningKey{}, false
	}
	var key SigningKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return SigningKey{}, false
	}
	return key, true
}

func (c *CacheAdapter) SetSigningKey(ctx context.Context, realmID ids.ID, key SigningKey) {
	raw, err := json.Marshal(key)
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, signingKeyKeyPrefix+realmID.String(), raw, signingKeyTTL)
}

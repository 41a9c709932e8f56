// Package redis adapts go-redis to the cache.Store substrate interface,
// built on a pooled redis.Client connection.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authcore/cache"
	pkgredis "github.com/dmitrymomot/authcore/pkg/redis"
)

// Store implements cache.Store on top of a redis.UniversalClient.
type Store struct {
	client    goredis.UniversalClient
	scanCount int64
}

// New wraps an already-connected Redis client (see Dial, or pkg/redis.Connect
// directly) as a cache.Store. scanBatchSize controls the COUNT hint used by
// SCAN during DeletePrefix; pass 0 to use Redis's default.
func New(client goredis.UniversalClient, scanBatchSize int) *Store {
	return &Store{client: client, scanCount: int64(scanBatchSize)}
}

// Dial connects to Redis via pkg/redis.Connect (bounded retry against
// ephemeral connection failures) and wraps the resulting client as a Store.
func Dial(ctx context.Context, cfg pkgredis.Config) (*Store, error) {
	client, err := pkgredis.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(client, cfg.ScanBatchSize), nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Join(cache.ErrUnavailable, err)
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Join(cache.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return errors.Join(cache.ErrUnavailable, err)
	}
	return nil
}

// DeletePrefix scans for keys matching prefix+"*" and deletes them in
// batches. Used for InvalidateRole's user fan-out and for clearing every
// cached key tied to a disabled realm.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	pattern := prefix + "*"

	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, s.scanCount).Result()
		if err != nil {
			return errors.Join(cache.ErrUnavailable, err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return errors.Join(cache.ErrUnavailable, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *Store) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errors.Join(cache.ErrUnavailable, err)
	}
	return incr.Val(), nil
}

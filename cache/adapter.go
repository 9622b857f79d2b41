package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/autoerp/server/cache/local"
	cacheredis "github.com/autoerp/server/cache/redis"
	"github.com/autoerp/server/config"
)

// Cache defines the KV operations used for read-through caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// NewCache returns a Cache backed by Redis if RedisAddr is set,
// otherwise returns an in-process LocalCache.
func NewCache(cfg config.CacheConfig) (Cache, error) {
	if cfg.RedisAddr != "" {
		return cacheredis.NewCache(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return local.NewCache(local.Config{
		GCInterval: cfg.LocalGCInterval,
	})
}

// IsMiss reports whether err means the key is absent in either backend.
func IsMiss(err error) bool {
	return errors.Is(err, local.ErrNotFound) || errors.Is(err, cacheredis.ErrNotFound)
}

// GetJSON decodes the value at key into dst. It returns false on a miss.
func GetJSON(ctx context.Context, c Cache, key string, dst any) (bool, error) {
	raw, err := c.Get(ctx, key)
	if err != nil {
		if IsMiss(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores v encoded as JSON under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(b), ttl)
}

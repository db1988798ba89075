package redisad

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"tripscout/internal/adapters/observability"
)

// Cache stores rendered review summaries. Values are plain strings, not
// JSON: the engine caches the formatted output whole and returns it
// verbatim on a hit.
type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.c.Get(ctx, key).Result()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	observability.ObserveCache("redis", "hit")
	return v, true, nil
}

func (r *Cache) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, val, ttl).Err()
}

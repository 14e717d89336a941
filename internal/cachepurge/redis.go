// internal/cachepurge/redis.go
//
// Redis-backed invalidator for key-prefix page caches.  Keys are expected
// under `<prefix><domain>:*`; deletion walks SCAN so a large cache never
// blocks the server the way KEYS would.
package cachepurge

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Redis purges cached pages stored under Prefix+domain.
type Redis struct {
	Client *redis.Client
	Prefix string
}

// NewRedis dials addr and returns a Redis invalidator.
func NewRedis(addr, prefix string) *Redis {
	return &Redis{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		Prefix: prefix,
	}
}

func (r *Redis) RemoveByKey(ctx context.Context, domain string) error {
	if domain == "" {
		return nil
	}
	pattern := r.Prefix + domain + ":*"

	iter := r.Client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 500 {
			if err := r.Client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.Client.Del(ctx, keys...).Err()
	}
	return nil
}

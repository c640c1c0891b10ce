package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON caches load's result as JSON. With a non-empty genKey the
// entry is guarded the way GetOrLoadGuarded describes.
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key, genKey string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	get := c.GetOrLoad
	if genKey != "" {
		get = func(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
			return c.GetOrLoadGuarded(ctx, key, genKey, ttl, load)
		}
	}
	b, err := get(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			// errors are never cached, a missing record is looked up again next time
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return nil, e
	}
	return &out, nil
}

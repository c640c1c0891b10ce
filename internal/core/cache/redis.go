package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

// GetOrLoad reads key, falling back to load on a miss or a redis error.
// Concurrent misses for one key share a single load.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// genTTL bounds how long an untouched generation counter is kept. It only has
// to outlive the slowest in-flight load.
const genTTL = 24 * time.Hour

// storeIfGen sets KEYS[1] only while KEYS[2] still holds the generation read
// before the load started. A missing counter reads as "".
var storeIfGen = redis.NewScript(`
local g = redis.call('GET', KEYS[2]) or ''
if g ~= ARGV[1] then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// GetOrLoadGuarded is GetOrLoad for keys written by Invalidate. The loaded
// value is stored only if genKey did not move while load ran, so a load that
// read the store before an invalidation cannot put the old value back.
func (c *Cache) GetOrLoadGuarded(ctx context.Context, key, genKey string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	gen, err := c.RDB.Get(ctx, genKey).Result()
	if errors.Is(err, redis.Nil) {
		gen, err = "", nil
	}
	if err != nil {
		// redis is unreachable: serve from the store without caching
		return load(ctx)
	}
	// callers that arrive after an invalidation start a fresh load
	v, err, _ := c.sf.Do(key+"#"+gen, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = storeIfGen.Run(ctx, c.RDB, []string{key, genKey}, gen, b, ttl.Milliseconds()).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate drops key and bumps genKey so loads already in flight skip
// their store.
func (c *Cache) Invalidate(ctx context.Context, key, genKey string) error {
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey)
		p.Expire(ctx, genKey, genTTL)
		p.Del(ctx, key)
		return nil
	})
	return err
}

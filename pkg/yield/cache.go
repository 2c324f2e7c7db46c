package yield

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/raterudder/solarquote/pkg/log"
	"github.com/raterudder/solarquote/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Cache stores string values by key.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// RedisCache implements Cache with a Redis server.
type RedisCache struct {
	client *redis.Client
}

// redisTimeout bounds each cache round trip so an unreachable server costs
// well under a second of the lookup's budget.
const redisTimeout = 500 * time.Millisecond

// NewRedisCache connects lazily to the Redis server at addr. Commands are not
// retried.
func NewRedisCache(addr string, db int) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			DB:           db,
			MaxRetries:   -1,
			DialTimeout:  redisTimeout,
			ReadTimeout:  redisTimeout,
			WriteTimeout: redisTimeout,
		}),
	}
}

// Get implements Cache.
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close implements Cache.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Cached wraps an Estimator and remembers its successful estimates. Failures
// are never cached so a later run can still get a real estimate.
type Cached struct {
	estimator Estimator
	cache     Cache
	ttl       time.Duration
}

// NewCached returns an Estimator that checks cache before calling estimator.
func NewCached(estimator Estimator, cache Cache, ttl time.Duration) *Cached {
	return &Cached{
		estimator: estimator,
		cache:     cache,
		ttl:       ttl,
	}
}

// Name implements Estimator.
func (c *Cached) Name() string {
	return c.estimator.Name()
}

// cacheKey rounds coordinates to 4 decimals (~11m) which is far finer than
// the resolution of any irradiance dataset.
func (c *Cached) cacheKey(in types.Inputs) string {
	return fmt.Sprintf("solarquote:yield:%s:%.4f:%.4f", c.estimator.Name(), in.Latitude, in.Longitude)
}

// Estimate implements Estimator.
func (c *Cached) Estimate(ctx context.Context, in types.Inputs) (float64, error) {
	key := c.cacheKey(in)
	val, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to read yield cache", slog.String("key", key), slog.Any("error", err))
	} else if ok {
		v, err := strconv.ParseFloat(val, 64)
		if err == nil && v > 0 {
			log.Ctx(ctx).DebugContext(ctx, "yield cache hit", slog.String("key", key), slog.Float64("kwhPerKWP", v))
			return v, nil
		}
		log.Ctx(ctx).WarnContext(ctx, "ignoring invalid cached yield", slog.String("key", key), slog.String("value", val))
	}

	v, err := c.estimator.Estimate(ctx, in)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return v, nil
	}
	if err := c.cache.Set(ctx, key, strconv.FormatFloat(v, 'g', -1, 64), c.ttl); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to write yield cache", slog.String("key", key), slog.Any("error", err))
	}
	return v, nil
}

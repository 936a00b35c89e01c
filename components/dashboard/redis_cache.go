package dashboard

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRenderCacheTTL = time.Minute

// RedisCacheOptions configures a RedisRenderCache.
type RedisCacheOptions struct {
	URL    string
	TTL    time.Duration
	Prefix string
}

// RedisRenderCache shares rendered chart markup across processes. Lookups
// run against Redis with the configured TTL; a miss renders locally and
// stores the result. Store failures are swallowed so Redis trouble degrades
// to render-every-time instead of failing the cycle.
type RedisRenderCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisRenderCache connects and pings before returning, so callers can
// fall back to the in-memory cache when Redis is unreachable.
func NewRedisRenderCache(ctx context.Context, opts RedisCacheOptions) (*RedisRenderCache, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379/0"
	}
	cfg, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("dashboard: parse redis url: %w", err)
	}
	client := redis.NewClient(cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("dashboard: redis ping: %w", err)
	}
	cache := &RedisRenderCache{
		client: client,
		ttl:    opts.TTL,
		prefix: opts.Prefix,
	}
	if cache.ttl <= 0 {
		cache.ttl = defaultRenderCacheTTL
	}
	if cache.prefix == "" {
		cache.prefix = "dashboard:render:"
	}
	return cache, nil
}

// GetOrRender returns the shared entry or renders and stores a new one.
func (c *RedisRenderCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	ctx := context.Background()
	full := c.prefix + key
	if html, err := c.client.Get(ctx, full).Result(); err == nil {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	_ = c.client.Set(ctx, full, html, c.ttl).Err()
	return html, nil
}

// Close releases the underlying connection pool.
func (c *RedisRenderCache) Close() error {
	return c.client.Close()
}

// NewRenderCacheFromEnv picks Redis when REDIS_URL is set and reachable, and
// the in-memory cache otherwise.
func NewRenderCacheFromEnv(ctx context.Context, ttl time.Duration) RenderCache {
	if url := os.Getenv("REDIS_URL"); url != "" {
		if cache, err := NewRedisRenderCache(ctx, RedisCacheOptions{URL: url, TTL: ttl}); err == nil {
			return cache
		}
	}
	return NewChartCache(ttl)
}

package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	dashboard "github.com/Ian-Rin/eco/components/dashboard"
)

// DefaultCacheTTL bounds how stale a cached payload may get before the
// inner client is consulted again.
const DefaultCacheTTL = 5 * time.Minute

const boundsCacheKey = "bounds"

// CachedClient caches feed responses per query for a TTL, so repeated
// identical filters do not hammer the upstream service. Errors are never
// cached.
type CachedClient struct {
	inner Client
	store *cache.Cache
}

var _ Client = (*CachedClient)(nil)

// NewCachedClient wraps a feed client with a TTL cache. A non-positive TTL
// uses DefaultCacheTTL.
func NewCachedClient(inner Client, ttl time.Duration) *CachedClient {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedClient{
		inner: inner,
		store: cache.New(ttl, 2*ttl),
	}
}

// FetchPayload serves from cache when the same query was fetched within the
// TTL.
func (c *CachedClient) FetchPayload(ctx context.Context, query dashboard.FeedQuery) (dashboard.DashboardPayload, error) {
	key := payloadKey(query)
	if cached, found := c.store.Get(key); found {
		if payload, ok := cached.(dashboard.DashboardPayload); ok {
			return payload, nil
		}
	}
	payload, err := c.inner.FetchPayload(ctx, query)
	if err != nil {
		return payload, err
	}
	c.store.Set(key, payload, cache.DefaultExpiration)
	return payload, nil
}

// FetchBounds serves the cached date range when fresh.
func (c *CachedClient) FetchBounds(ctx context.Context) (dashboard.DateBounds, error) {
	if cached, found := c.store.Get(boundsCacheKey); found {
		if bounds, ok := cached.(dashboard.DateBounds); ok {
			return bounds, nil
		}
	}
	bounds, err := c.inner.FetchBounds(ctx)
	if err != nil {
		return bounds, err
	}
	c.store.Set(boundsCacheKey, bounds, cache.DefaultExpiration)
	return bounds, nil
}

// Invalidate drops every cached entry.
func (c *CachedClient) Invalidate() {
	c.store.Flush()
}

func payloadKey(query dashboard.FeedQuery) string {
	return fmt.Sprintf("payload|%s|%s|%s|%d", query.DateFrom, query.DateTo, query.Code, query.Limit)
}

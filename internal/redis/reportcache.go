package redisx

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReportCache holds computed report payloads keyed by report kind and
// window. It is strictly an accelerator: every operation fails open, so a
// dead Redis only costs recomputation.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewReportCache(addr string, ttl time.Duration, log *zap.Logger) *ReportCache {
	c := redis.NewClient(&redis.Options{Addr: addr})
	return &ReportCache{client: c, ttl: ttl, log: log}
}

func (c *ReportCache) key(k string) string { return "report:" + k }

// Get returns the cached payload and whether it was present.
func (c *ReportCache) Get(ctx context.Context, k string) ([]byte, bool) {
	b, err := c.client.Get(ctx, c.key(k)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("report cache get", zap.String("key", k), zap.Error(err))
		return nil, false
	}
	return b, true
}

// Set stores a payload under the cache TTL. Errors are logged and dropped.
func (c *ReportCache) Set(ctx context.Context, k string, b []byte) {
	if err := c.client.Set(ctx, c.key(k), b, c.ttl).Err(); err != nil {
		c.log.Warn("report cache set", zap.String("key", k), zap.Error(err))
	}
}

func (c *ReportCache) Close() { _ = c.client.Close() }

// GetClient returns the underlying Redis client for the rate limiter.
func (c *ReportCache) GetClient() *redis.Client {
	return c.client
}

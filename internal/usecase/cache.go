package usecase

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	runCacheTTL    = 5 * time.Minute
	runCachePrefix = "run:"
)

// RunCache holds recently recorded filter decisions, keyed by request id.
// Abstracted so tests can substitute it.
type RunCache interface {
	PutRun(ctx context.Context, requestID, serialized string) error
	GetRun(ctx context.Context, requestID string) (string, error)
}

// RedisRunCache is a concrete implementation backed by go-redis. Entries
// expire on their own; the repository stays the source of truth.
type RedisRunCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRunCache constructs a new Redis-backed run cache.
func NewRedisRunCache(client *redis.Client) *RedisRunCache {
	return &RedisRunCache{client: client, ttl: runCacheTTL}
}

// PutRun writes a serialized run record to Redis.
func (c *RedisRunCache) PutRun(ctx context.Context, requestID, serialized string) error {
	return c.client.Set(ctx, runCachePrefix+requestID, serialized, c.ttl).Err()
}

// GetRun retrieves a serialized run record; redis.Nil signals a miss.
func (c *RedisRunCache) GetRun(ctx context.Context, requestID string) (string, error) {
	return c.client.Get(ctx, runCachePrefix+requestID).Result()
}

package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

// DefaultCacheTTL bounds how long an analysis result is reused.
const DefaultCacheTTL = 24 * time.Hour

// ResultCache stores serialized analysis results. Get returns ErrCacheMiss
// when no entry exists.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// RedisResultCache is a ResultCache backed by Redis string keys with a TTL.
type RedisResultCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisResultCache creates a new RedisResultCache instance
func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisResultCache{redis: client, ttl: ttl}
}

// Get retrieves a cached result from Redis
func (c *RedisResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached result from Redis: %w", err)
	}
	return data, nil
}

// Set saves a result to Redis
func (c *RedisResultCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.redis.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save result to Redis: %w", err)
	}
	return nil
}

// analysisCacheKey identifies a result by task and image content.
func analysisCacheKey(task string, image []byte) string {
	sum := blake2b.Sum256(image)
	return fmt.Sprintf("analysis:%s:%s", task, hex.EncodeToString(sum[:]))
}

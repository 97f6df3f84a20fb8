package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/fitcoach/backend/internal/testdb"
)

func TestAnalysisCacheKey(t *testing.T) {
	a := analysisCacheKey(TaskFood, []byte("image-a"))
	b := analysisCacheKey(TaskFood, []byte("image-b"))

	assert.Equal(t, a, analysisCacheKey(TaskFood, []byte("image-a")))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, analysisCacheKey(TaskPosture, []byte("image-a")))
	assert.Regexp(t, `^analysis:food:[0-9a-f]{64}$`, a)
}

func TestRedisResultCache(t *testing.T) {
	client := testdb.SetupRedis(t)
	ctx := context.Background()
	cache := NewRedisResultCache(client, time.Minute)

	_, err := cache.Get(ctx, "analysis:food:missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "analysis:food:abc", []byte(`{"total_calories":350}`)))

	got, err := cache.Get(ctx, "analysis:food:abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_calories":350}`, string(got))

	ttl, err := client.TTL(ctx, "analysis:food:abc").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisResultCacheDefaultTTL(t *testing.T) {
	cache := NewRedisResultCache(nil, 0)
	assert.Equal(t, DefaultCacheTTL, cache.ttl)
}

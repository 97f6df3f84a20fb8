package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/internal/testdb"
)

func TestLocalRateLimiter(t *testing.T) {
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	limiter := NewLocalRateLimiter(RateLimitConfig{Limit: 3, Window: time.Minute})
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, remaining, _, err := limiter.IsAllowed(ctx, "ip:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 2-i, remaining)
	}

	allowed, remaining, _, err := limiter.IsAllowed(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _, _ = limiter.IsAllowed(ctx, "ip:5.6.7.8")
	assert.True(t, allowed, "keys have separate buckets")

	now = now.Add(20 * time.Second)
	allowed, _, _, _ = limiter.IsAllowed(ctx, "ip:1.2.3.4")
	assert.True(t, allowed, "one token refills every window/limit")
}

func TestLocalRateLimiterPrune(t *testing.T) {
	now := time.Now()
	limiter := NewLocalRateLimiter(RateLimitConfig{Limit: 1, Window: time.Second})
	limiter.now = func() time.Time { return now }

	limiter.IsAllowed(context.Background(), "a")
	now = now.Add(2 * time.Second)
	limiter.prune(now)

	assert.Empty(t, limiter.entries)
}

type failingLimiter struct{}

func (failingLimiter) IsAllowed(context.Context, string) (bool, int, time.Time, error) {
	return false, 0, time.Time{}, errors.New("redis down")
}

func rateLimitedRouter(limiter Limiter, cfg RateLimitConfig) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set(UserIDKey, id)
		}
	})
	r.Use(RateLimit(limiter, cfg, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := RateLimitConfig{Limit: 2, Window: time.Minute}
	r := rateLimitedRouter(NewLocalRateLimiter(cfg), cfg)

	do := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("").Code)
	w := do("")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do("")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do("u-1").Code, "authenticated users are limited by id")
}

func TestRateLimitMiddlewareFailsOpen(t *testing.T) {
	cfg := RateLimitConfig{Limit: 1, Window: time.Minute}
	r := rateLimitedRouter(failingLimiter{}, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestRedisRateLimiter(t *testing.T) {
	client := testdb.SetupRedis(t)
	limiter := NewRateLimiter(client, RateLimitConfig{Limit: 2, Window: time.Minute, KeyPrefix: "test"})
	now := time.Date(2025, 3, 9, 12, 0, 30, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	allowed, remaining, reset, err := limiter.IsAllowed(ctx, "user:u-1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, time.Date(2025, 3, 9, 12, 1, 0, 0, time.UTC), reset)

	limiter.IsAllowed(ctx, "user:u-1")
	allowed, remaining, _, err = limiter.IsAllowed(ctx, "user:u-1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	now = now.Add(time.Minute)
	allowed, _, _, err = limiter.IsAllowed(ctx, "user:u-1")
	require.NoError(t, err)
	assert.True(t, allowed, "a new window starts a new count")
}

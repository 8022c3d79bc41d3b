package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, perMinute int) *RedisRateLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &RedisRateLimiter{Redis: client, Prefix: "rl", PerMinute: perMinute}
}

func TestRateLimitAllowsWithinBudget(t *testing.T) {
	limiter := newTestLimiter(t, 3)

	handler := RateLimit(limiter, func(r *http.Request) string {
		return r.Header.Get("X-Client")
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Client", "tenant-a")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Client", "tenant-a")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimitIsolatesKeys(t *testing.T) {
	limiter := newTestLimiter(t, 1)

	for _, client := range []string{"tenant-a", "tenant-b"} {
		allowed, _, err := limiter.Allow(context.Background(), client)
		require.NoError(t, err)
		assert.True(t, allowed, "first request for %s", client)
	}

	allowed, _, err := limiter.Allow(context.Background(), "tenant-a")
	require.NoError(t, err)
	assert.False(t, allowed, "second request for tenant-a exceeds its own budget")
}

func TestRateLimitBypassesEmptyKey(t *testing.T) {
	limiter := newTestLimiter(t, 0)

	handler := RateLimit(limiter, func(*http.Request) string { return "" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

package security

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed-window counter over redis: one window per
// (prefix, key, minute), incremented atomically so concurrent replicas
// share the budget.
type RedisRateLimiter struct {
	Redis  *redis.Client
	Prefix string

	// PerMinute is the request budget per key per window. Zero or
	// negative disables limiting.
	PerMinute int
}

var fixedWindowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// Allow counts one request against key's current window and reports
// whether it is within budget, plus the remaining budget.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	if l.Redis == nil || l.PerMinute <= 0 {
		return true, 0, nil
	}

	window := time.Now().Unix() / 60
	bucket := l.Prefix + ":" + key + ":" + strconv.FormatInt(window, 10)

	count, err := fixedWindowScript.Run(ctx, l.Redis, []string{bucket}, 60).Int()
	if err != nil {
		return false, 0, err
	}

	remaining := l.PerMinute - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.PerMinute, remaining, nil
}

// RateLimit rejects requests over budget with 429. keyFn picks the
// limiting identity for a request; an empty key bypasses the limiter.
// Limiter backend failure rejects with 503 rather than letting traffic
// through unmetered.
func RateLimit(l *RedisRateLimiter, keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ""
			if keyFn != nil {
				key = keyFn(r)
			}
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, err := l.Allow(r.Context(), key)
			if err != nil {
				WriteJSONError(w, r, http.StatusServiceUnavailable, "rate_limiter_unavailable")
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !allowed {
				WriteJSONError(w, r, http.StatusTooManyRequests, "rate_limited")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

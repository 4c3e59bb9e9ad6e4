package security

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"partner-portal/monitoring"

	"github.com/labstack/echo/v5/middleware"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

const storeTimeout = 500 * time.Millisecond

var _ middleware.RateLimiterStore = (*RedisStore)(nil)

// windowScriptSource increments the counter and arms its expiry in one step. A key
// left without a TTL gets one on its next hit.
const windowScriptSource = `
local count = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) == -1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`

var windowScript = redis.NewScript(windowScriptSource)

// RedisStore is a fixed window counter shared by every portal instance.
type RedisStore struct {
	redis  redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisStore(redisClient redis.Cmdable, prefix string, limit int, window time.Duration) *RedisStore {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisStore{redis: redisClient, prefix: prefix, limit: int64(limit), window: window}
}

// Allow counts one request for identifier in the current window.
func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	key := fmt.Sprintf("ratelimit:%s:%s", s.prefix, identifier)
	count, err := windowScript.Run(ctx, s.redis, []string{key}, s.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("windowScript.Run(): %w", err)
	}
	return count <= s.limit, nil
}

// RateLimit limits requests per signed-in partner, or per client IP before
// sign in. Requests are let through when the store is unreachable.
func RateLimit(store middleware.RateLimiterStore, scope string) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		allowed, err := store.Allow(identifier(e))
		if err != nil {
			slog.Warn("rate limiter unavailable", "scope", scope, "error", err)
			return e.Next()
		}
		if !allowed {
			monitoring.TrackRateLimited(scope)
			return apis.NewTooManyRequestsError("Too many requests. Please try again later.", nil)
		}
		return e.Next()
	}
}

func identifier(e *core.RequestEvent) string {
	if e.Auth != nil {
		return "partner:" + e.Auth.Id
	}
	if e.App == nil {
		return "ip:" + e.RemoteIP()
	}
	return "ip:" + e.RealIP()
}

var suspiciousAgents = []string{"bot", "crawler", "spider", "scraper"}

// AntiBot rejects clients that announce themselves as crawlers.
func AntiBot(e *core.RequestEvent) error {
	if isSuspiciousUserAgent(e.Request.UserAgent()) {
		monitoring.TrackRateLimited("antibot")
		return apis.NewForbiddenError("Access denied", nil)
	}
	return e.Next()
}

func isSuspiciousUserAgent(ua string) bool {
	ua = strings.ToLower(ua)
	for _, pattern := range suspiciousAgents {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}

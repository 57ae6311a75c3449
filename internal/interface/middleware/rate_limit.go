package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/studyforest/study-forest-api/pkg/helpers"
	"github.com/studyforest/study-forest-api/pkg/response"
)

// KeyFunc builds the counter key of a request.
type KeyFunc func(c *gin.Context) string

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyByIPAndPath counts per client IP and route pattern.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "sf:rl:route:" + routeOf(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID counts per authenticated user, per IP for anonymous callers.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := UserID(c); uid != "" {
			return "sf:rl:user:" + uid
		}
		return "sf:rl:anon:ip:" + ipFromCtx(c)
	}
}

// Limit is a fixed-window request budget.
type Limit struct {
	Max    int
	Window time.Duration
}

// INCR and PEXPIRE run atomically so a new key always gets its window.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimit enforces limit per key with a Redis fixed window and sets the
// X-RateLimit-* headers. It is a no-op without a Redis client and fails open
// when Redis errors.
func RateLimit(rdb *redis.Client, limit Limit, keyFn KeyFunc, allow AllowFunc, logger *logrus.Logger) gin.HandlerFunc {
	if rdb == nil || limit.Max <= 0 || limit.Window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := keyFn(c)
		count, err := incrExpireScript.Run(ctx, rdb, []string{key}, limit.Window.Milliseconds()).Int()
		if err != nil {
			helpers.LogWarn(logger, "rate limiter unavailable", err, logrus.Fields{"key": key})
			c.Next()
			return
		}

		resetSec := 0
		if ttl, err := rdb.PTTL(ctx, key).Result(); err == nil && ttl > 0 {
			resetSec = int((ttl + time.Second - 1) / time.Second)
		}
		remaining := limit.Max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > limit.Max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Abort(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}

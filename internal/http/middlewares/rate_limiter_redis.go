package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is the fixed-window limiter backed by Redis, so limits
// hold across processes. INCR + EXPIRE on first hit keeps it to two
// round trips worst case.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		rdb:    rdb,
		limit:  int64(limit),
		window: window,
		prefix: "ratelimit:",
	}
}

func (rl *RedisRateLimiter) Middleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			key = clientIP(c)
		}

		rctx := c.Request.Context()
		redisKey := rl.prefix + key

		count, err := rl.rdb.Incr(rctx, redisKey).Result()

		if err != nil {
			// Redis being down must not lock everyone out.
			c.Next()
			return
		}

		if count == 1 {
			rl.rdb.Expire(rctx, redisKey, rl.window)
		}

		if count > rl.limit {
			ttl, err := rl.rdb.TTL(rctx, redisKey).Result()

			retryAfter := int(rl.window.Seconds())

			if err == nil && ttl > 0 {
				retryAfter = int(ttl.Seconds())
			}

			abortRateLimited(c, retryAfter)
			return
		}

		c.Next()
	}
}

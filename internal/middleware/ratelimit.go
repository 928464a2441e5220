package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/kakomon/kakomon-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// WindowCounter counts hits on key within a fixed window.
type WindowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisWindowCounter is a WindowCounter shared by every server instance.
type RedisWindowCounter struct {
	rdb *redis.Client
}

// NewRedisWindowCounter creates a new RedisWindowCounter.
func NewRedisWindowCounter(rdb *redis.Client) *RedisWindowCounter {
	return &RedisWindowCounter{rdb: rdb}
}

// Hit increments key and sets its expiry on the first hit of a window.
func (r *RedisWindowCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimiter caps how many quiz sessions one user may start per minute.
type RateLimiter struct {
	counter WindowCounter
	limit   int
	now     func() time.Time
	log     zerolog.Logger
}

// NewRateLimiter creates a RateLimiter allowing limit starts per minute.
// A non-positive limit disables limiting.
func NewRateLimiter(counter WindowCounter, limit int, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		now:     time.Now,
		log:     log.With().Str("component", "rate_limiter").Logger(),
	}
}

// Middleware limits by authenticated user, falling back to client IP.
// Counter failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		minute := rl.now().Unix() / 60
		var key string
		if userID := UserID(c); userID > 0 {
			key = config.CacheKey.UserStartLimitKey(userID, minute)
		} else {
			key = "ip:" + c.ClientIP() + ":quiz_starts:" + strconv.FormatInt(minute, 10)
		}

		hits, err := rl.counter.Hit(c.Request.Context(), key, time.Minute)
		if err != nil {
			rl.log.Warn().Err(err).Str("key", key).Msg("rate limit counter unavailable")
			c.Next()
			return
		}

		if hits > int64(rl.limit) {
			c.Header("Retry-After", strconv.FormatInt(60-rl.now().Unix()%60, 10))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}

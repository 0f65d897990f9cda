package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/festy23/bookclub/internal/auth"
	"github.com/festy23/bookclub/internal/config"
	"github.com/festy23/bookclub/internal/response"
)

const maxTrackedClients = 10000

// RateLimiter keeps one token bucket per principal (user id when
// authenticated, client IP otherwise).
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	logger   *zap.SugaredLogger
}

// NewRateLimiter creates a rate limiter from configuration.
func NewRateLimiter(cfg config.RateLimitConfig, logger *zap.SugaredLogger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
		logger:   logger,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		// bound memory by forgetting every bucket at once
		if len(rl.limiters) >= maxTrackedClients {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Handler returns the gin middleware.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID, ok := auth.UserID(c); ok {
			key = "user:" + strconv.FormatInt(userID, 10)
		}

		if !rl.limiter(key).Allow() {
			rl.logger.Warnw("rate limit exceeded",
				"key", key,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
			c.Header("Retry-After", "1")
			response.Error(c, http.StatusTooManyRequests, response.CodeRateLimited, "too many requests")
			return
		}

		c.Next()
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/festy23/bookclub/internal/auth"
	"github.com/festy23/bookclub/internal/config"
)

func setupRateLimitRouter(burst int, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(config.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 0.001,
		Burst:             burst,
	}, zap.NewNop().Sugar())

	r := gin.New()
	if userID != 0 {
		r.Use(func(c *gin.Context) { auth.SetUserID(c, userID) })
	}
	r.Use(rl.Handler())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiter_RejectsAfterBurst(t *testing.T) {
	router := setupRateLimitRouter(2, 0)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_ResponseFormat(t *testing.T) {
	router := setupRateLimitRouter(1, 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimiter_SeparateBucketsPerPrincipal(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}, zap.NewNop().Sugar())

	assert.True(t, rl.limiter("user:1").Allow())
	assert.False(t, rl.limiter("user:1").Allow())
	assert.True(t, rl.limiter("user:2").Allow())
}

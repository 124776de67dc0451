package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jhunter5/Backend/internal/config"
)

func setupLimitedEngine(rm *RateLimiterMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rm.Limit())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}

func requestFrom(r http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterMiddleware_BucketExhausted(t *testing.T) {
	rm := NewRateLimiterMiddleware(&config.Config{RateLimitBucketSize: 2, RateLimitRefillRate: 1})
	router := setupLimitedEngine(rm)

	assert.Equal(t, http.StatusOK, requestFrom(router, "1.2.3.4:12345").Code)
	assert.Equal(t, http.StatusOK, requestFrom(router, "1.2.3.4:12345").Code)

	w := requestFrom(router, "1.2.3.4:12345")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Rate limit exceeded"}`, w.Body.String())

	// Other clients have their own bucket.
	assert.Equal(t, http.StatusOK, requestFrom(router, "5.6.7.8:12345").Code)
}

func TestRateLimiterMiddleware_Disabled(t *testing.T) {
	rm := NewRateLimiterMiddleware(&config.Config{})
	router := setupLimitedEngine(rm)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, requestFrom(router, "1.2.3.4:12345").Code)
	}
	assert.Empty(t, rm.clients)
}

func TestRateLimiterMiddleware_Sweep(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rm := NewRateLimiterMiddleware(&config.Config{RateLimitBucketSize: 5, RateLimitRefillRate: 1})
	rm.now = func() time.Time { return now }
	router := setupLimitedEngine(rm)

	requestFrom(router, "1.1.1.1:1")
	now = now.Add(20 * time.Minute)
	requestFrom(router, "2.2.2.2:1")
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, rm.Sweep())
	assert.Len(t, rm.clients, 1)
	assert.Contains(t, rm.clients, "2.2.2.2")
}

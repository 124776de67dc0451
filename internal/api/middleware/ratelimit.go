package middleware

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jhunter5/Backend/internal/config"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterIdleTTL         = 30 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterMiddleware keeps one token bucket per client IP.
type RateLimiterMiddleware struct {
	clients map[string]*clientLimiter
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewRateLimiterMiddleware sizes every client bucket from cfg.
// A non-positive bucket size disables limiting.
func NewRateLimiterMiddleware(cfg *config.Config) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(cfg.RateLimitRefillRate),
		burst:   cfg.RateLimitBucketSize,
		now:     time.Now,
	}
}

func (rm *RateLimiterMiddleware) clientLimiter(key string) *rate.Limiter {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	cl, ok := rm.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rm.limit, rm.burst)}
		rm.clients[key] = cl
	}
	cl.lastSeen = rm.now()
	return cl.limiter
}

// Sweep drops clients idle for longer than limiterIdleTTL and returns how many were removed.
func (rm *RateLimiterMiddleware) Sweep() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	removed := 0
	for key, cl := range rm.clients {
		if rm.now().Sub(cl.lastSeen) > limiterIdleTTL {
			delete(rm.clients, key)
			removed++
		}
	}
	return removed
}

// RunCleanup sweeps idle clients periodically until stop is closed.
func (rm *RateLimiterMiddleware) RunCleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := rm.Sweep(); n > 0 {
				log.Printf("Rate limiter cleanup removed %d idle clients", n)
			}
		}
	}
}

// Limit returns the Gin handler. Rejected requests get 429 with a Retry-After hint.
func (rm *RateLimiterMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rm.burst <= 0 {
			c.Next()
			return
		}
		limiter := rm.clientLimiter(c.ClientIP())
		if !limiter.Allow() {
			retryAfter := 1
			if rm.limit > 0 {
				retryAfter = int(time.Duration(float64(time.Second)/float64(rm.limit)).Seconds()) + 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}

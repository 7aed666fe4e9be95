package middlewares

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const visitorIdleTTL = 10 * time.Minute

type RateLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows rps requests per second per key with bursts up to burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}

	return &RateLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		visitors:  make(map[string]*visitor),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// idle visitors are swept inline; no background goroutine to stop
	if now.Sub(rl.lastSweep) > visitorIdleTTL {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > visitorIdleTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter
}

// RateLimiterMiddleware enforces the limit for a key derived from the request.
// A limiter built with rps <= 0 lets everything through.
func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rps <= 0 {
			c.Next()
			return
		}

		key := keyFn(c)
		if key == "" {
			key = clientIP(c)
		}

		now := rl.now()
		res := rl.limiterFor(key).ReserveN(now, 1)
		if !res.OK() {
			abortRateLimited(c, 1)
			return
		}

		// refused requests give their token back
		if delay := res.DelayFrom(now); delay > 0 {
			res.CancelAt(now)
			abortRateLimited(c, int(math.Ceil(delay.Seconds())))
			return
		}

		c.Next()
	}
}

func abortRateLimited(c *gin.Context, retryAfter int) {
	c.Header("Retry-After", strconv.Itoa(max(retryAfter, 1)))
	abortJSON(c, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again shortly.")
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

// For authenticated endpoints: rate limit by user id if available
func KeyByUserOrIP(c *gin.Context) string {
	id, ok := UserIDFromContext(c)
	if ok {
		return "user:" + strconv.FormatInt(id, 10)
	}

	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)
	if err == nil && host != "" {
		return host
	}

	return ip
}

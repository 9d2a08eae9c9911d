package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiter counts requests per client IP in fixed windows. Puzzle
// generation is CPU bound, so it guards the generating endpoints.
type RateLimiter struct {
	requests map[string]*window
	mu       sync.Mutex
	limit    int           // max requests per window
	period   time.Duration // window length
	now      func() time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a RateLimiter allowing limit requests per period.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string]*window),
		limit:    limit,
		period:   period,
		now:      time.Now,
	}
}

// Allow records a request from ip. When it is over the limit, ok is false
// and retryAfter is the time until the window resets.
func (rl *RateLimiter) Allow(ip string) (ok bool, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, exists := rl.requests[ip]
	if !exists || !now.Before(w.resetAt) {
		rl.requests[ip] = &window{count: 1, resetAt: now.Add(rl.period)}
		return true, 0
	}

	if w.count >= rl.limit {
		return false, w.resetAt.Sub(now)
	}
	w.count++
	return true, 0
}

// Cleanup drops expired windows and returns how many were removed.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for ip, w := range rl.requests {
		if !now.Before(w.resetAt) {
			delete(rl.requests, ip)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup every period until stop is closed.
func (rl *RateLimiter) StartCleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(rl.period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header in whole seconds.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, retryAfter := rl.Allow(c.RealIP())
			if !ok {
				secs := int(math.Ceil(retryAfter.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   true,
					"message": "リクエストが多すぎます。しばらく待ってから再試行してください。",
				})
			}

			return next(c)
		}
	}
}

package middleware

import (
	"strconv"
	"sync"
	"time"

	"project-service/internal/security"
	apperrors "project-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"
	msgRateLimitExceeded     = "rate limit exceeded"
)

const defaultMaxVisitors = 10000

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements token bucket rate limiting per identity. It holds at
// most maxVisitors buckets; idle ones are swept first, then the least
// recently seen is dropped.
type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	rate        rate.Limit
	burst       int
	maxVisitors int
	idleAfter   time.Duration
	now         func() time.Time
}

// NewRateLimiter creates a new rate limiter
// requestsPerSecond: number of requests allowed per second
// burst: maximum burst size
func NewRateLimiter(requestsPerSecond int, burst int) *RateLimiter {
	return &RateLimiter{
		visitors:    make(map[string]*visitor),
		rate:        rate.Limit(requestsPerSecond),
		burst:       burst,
		maxVisitors: defaultMaxVisitors,
		idleAfter:   refillTime(requestsPerSecond, burst),
		now:         time.Now,
	}
}

// refillTime is how long an untouched bucket takes to fill up again. A
// visitor idle that long is indistinguishable from a new one.
func refillTime(requestsPerSecond, burst int) time.Duration {
	if requestsPerSecond <= 0 {
		return time.Hour
	}
	d := time.Duration(float64(burst) / float64(requestsPerSecond) * float64(time.Second))
	if d < time.Second {
		d = time.Second
	}
	return d
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}

	if len(rl.visitors) >= rl.maxVisitors {
		rl.sweep(now)
	}
	if len(rl.visitors) >= rl.maxVisitors {
		rl.evictOldest()
	}

	v := &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst), lastSeen: now}
	rl.visitors[key] = v
	return v.limiter
}

// sweep drops visitors idle long enough to have a full bucket. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) >= rl.idleAfter {
			delete(rl.visitors, key)
		}
	}
}

// evictOldest drops the least recently seen visitor. Caller holds mu.
func (rl *RateLimiter) evictOldest() {
	var (
		oldestKey string
		oldest    *visitor
	)
	for key, v := range rl.visitors {
		if oldest == nil || v.lastSeen.Before(oldest.lastSeen) {
			oldestKey, oldest = key, v
		}
	}
	if oldest != nil {
		delete(rl.visitors, oldestKey)
	}
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware limits by bound principal when there is one, by client IP otherwise.
// The client IP comes from the Echo instance's IPExtractor.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if p, ok := security.FromContext(c.Request().Context()).Principal(); ok {
				key = "user:" + p.Identifier
			}

			limiter := rl.getLimiter(key)
			h := c.Response().Header()
			h.Set(headerRateLimitLimit, strconv.Itoa(rl.burst))

			if !limiter.Allow() {
				h.Set(headerRateLimitRemaining, "0")
				h.Set(headerRetryAfter, "1")
				return apperrors.TooManyRequests(msgRateLimitExceeded)
			}

			h.Set(headerRateLimitRemaining, strconv.Itoa(int(limiter.Tokens())))
			return next(c)
		}
	}
}

// NewStrictRateLimiter is for sensitive endpoints such as login and register.
func NewStrictRateLimiter() *RateLimiter {
	return NewRateLimiter(5, 10)
}

// NewGlobalRateLimiter is a lenient limiter for general API usage.
func NewGlobalRateLimiter() *RateLimiter {
	return NewRateLimiter(100, 200)
}

// Package ratelimit counts attempts per key in fixed windows.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the time left until the window resets, never negative.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.ResetAt.Before(now) {
		return 0
	}
	return d.ResetAt.Sub(now)
}

// Limiter is implemented by the in-memory and Redis limiters.
type Limiter interface {
	// Allow records one attempt for key. A limit of zero or less disables limiting.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
	// Reset forgets every attempt recorded for key.
	Reset(ctx context.Context, key string) error
}

const (
	defaultMaxKeys = 10000
	defaultWindow  = time.Second
)

const (
	errRedisClientRequired = "redis client is required"
	errUnexpectedResponse  = "unexpected redis rate limit response"
	errInvalidCounter      = "invalid redis counter response"
)

func unlimited(limit int) Decision {
	return Decision{Allowed: true, Limit: limit, Remaining: limit}
}

func remaining(limit int, count int64) int {
	r := limit - int(count)
	if r < 0 {
		return 0
	}
	return r
}

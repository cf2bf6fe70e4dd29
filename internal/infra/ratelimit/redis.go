package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var allowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisLimiter shares windows between replicas through INCR and PEXPIRE.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisLimiter namespaces every key with prefix.
func NewRedisLimiter(client redis.UniversalClient, prefix string, now func() time.Time) (*RedisLimiter, error) {
	if client == nil {
		return nil, errors.New(errRedisClientRequired)
	}
	if now == nil {
		now = time.Now
	}
	return &RedisLimiter{client: client, prefix: prefix, now: now}, nil
}

func (r *RedisLimiter) Allow(ctx context.Context, key string, limit int, d time.Duration) (Decision, error) {
	if limit <= 0 {
		return unlimited(limit), nil
	}
	windowMillis := d.Milliseconds()
	if windowMillis <= 0 {
		windowMillis = defaultWindow.Milliseconds()
	}

	result, err := allowScript.Run(ctx, r.client, []string{r.prefix + key}, windowMillis).Result()
	if err != nil {
		return Decision{}, err
	}

	values, ok := result.([]any)
	if !ok || len(values) < 2 {
		return Decision{}, errors.New(errUnexpectedResponse)
	}
	current, ok := values[0].(int64)
	if !ok {
		return Decision{}, errors.New(errInvalidCounter)
	}
	ttlMillis, _ := values[1].(int64)

	resetAt := r.now()
	if ttlMillis > 0 {
		resetAt = resetAt.Add(time.Duration(ttlMillis) * time.Millisecond)
	}

	return Decision{
		Allowed:   current <= int64(limit),
		Limit:     limit,
		Remaining: remaining(limit, current),
		ResetAt:   resetAt,
	}, nil
}

func (r *RedisLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

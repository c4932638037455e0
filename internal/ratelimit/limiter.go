// Package ratelimit implements a Redis-backed sliding-window request
// counter shared by the HTTP middleware (IP scope) and the admission
// pipeline (user scope).  The counter is advanced atomically by a Lua
// script so concurrent requests cannot race the window bookkeeping.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one Allow call.  RetryAfter is only
// meaningful when Allowed is false and is never below one second so
// clients always get a usable Retry-After value.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter counts requests per key over a sliding window.  A nil Redis
// client disables limiting entirely: every call allows.  Failing open
// on Redis errors keeps the booking path available during cache
// outages.
type Limiter struct {
	rdb    *redis.Client
	prefix string
}

// NewLimiter returns a Limiter with the given key prefix.  rdb may be
// nil, in which case the limiter is a no-op.
func NewLimiter(rdb *redis.Client, prefix string) *Limiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &Limiter{rdb: rdb, prefix: prefix}
}

// The script keeps a sorted set of request timestamps per key, drops
// entries older than the window, and admits the request when fewer
// than `limit` remain.  On denial it reports the wait until the
// oldest entry leaves the window.
var slidingWindowScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local window_ms = tonumber(ARGV[2])
    local limit = tonumber(ARGV[3])

    redis.call('ZREMRANGEBYSCORE', key, 0, now_ms - window_ms)
    local count = redis.call('ZCARD', key)

    if count < limit then
        redis.call('ZADD', key, now_ms, now_ms .. '-' .. count)
        redis.call('PEXPIRE', key, window_ms)
        return { 1, limit - count - 1, 0 }
    end

    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local retry_ms = window_ms
    if oldest[2] then
        retry_ms = (tonumber(oldest[2]) + window_ms) - now_ms
        if retry_ms < 0 then retry_ms = 0 end
    end
    return { 0, 0, retry_ms }
`)

// Allow records one request against key and reports whether it fits
// inside the window.  Errors from Redis are returned alongside an
// allowing decision; callers choose whether to log them.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if l == nil || l.rdb == nil {
		return Decision{Allowed: true, Remaining: int64(limit)}, nil
	}
	fullKey := l.prefix + ":" + key
	args := []interface{}{
		time.Now().UnixMilli(),
		window.Milliseconds(),
		limit,
	}
	vals, err := slidingWindowScript.Run(ctx, l.rdb, []string{fullKey}, args...).Result()
	if err != nil {
		return Decision{Allowed: true, Remaining: int64(limit)}, err
	}
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return Decision{Allowed: true, Remaining: int64(limit)}, nil
	}
	d := Decision{
		Allowed:   asInt64(arr[0]) == 1,
		Remaining: asInt64(arr[1]),
	}
	if !d.Allowed {
		d.RetryAfter = time.Duration(asInt64(arr[2])) * time.Millisecond
		if d.RetryAfter < time.Second {
			d.RetryAfter = time.Second
		}
	}
	return d, nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	}
	return 0
}

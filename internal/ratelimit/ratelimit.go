// Package ratelimit provides a Redis-backed token-bucket limiter applied
// per command inside a session loop. The bucket state lives in Redis so
// limits hold across process restarts; when no Redis server is configured
// or reachable the limiter allows everything, keeping the booking path
// independent of the cache tier.
package ratelimit

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/config"
)

// limiterScript implements a token bucket in a single round trip: refill
// based on elapsed time, then take one token if any remain. Returns
// {allowed, tokens_left, retry_after_ms}.
var limiterScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        local until_next = interval_ms - (now_ms - last_refill)
        if until_next < 0 then until_next = 0 end
        retry_after_ms = until_next
    end

    redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill, 'capacity', capacity)
    redis.call('EXPIRE', key, ttl_seconds)

    return { allowed, tokens, retry_after_ms }
`)

// Limiter throttles commands per client key.
type Limiter struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

// New builds a Limiter. A nil Redis client or a disabled config yields a
// limiter whose Allow always returns true.
func New(cfg config.RateLimitConfig, rdb *redis.Client) *Limiter {
	return &Limiter{cfg: cfg, rdb: rdb}
}

// Allow consumes one token for key and reports whether the command may
// proceed. Redis errors fail open: a broken cache tier must not block
// bookings, so the command is allowed and the error is logged.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if !l.cfg.Enabled || l.rdb == nil {
		return true
	}
	fullKey := l.cfg.Prefix + ":" + key
	args := []interface{}{
		time.Now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		l.cfg.RefillInterval.Milliseconds(),
		int64(l.cfg.TTL / time.Second),
	}
	vals, err := limiterScript.Run(ctx, l.rdb, []string{fullKey}, args...).Result()
	if err != nil {
		log.Printf("ratelimit: redis error for key=%s: %v", fullKey, err)
		return true
	}
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		log.Printf("ratelimit: unexpected script result for key=%s: %#v", fullKey, vals)
		return true
	}
	allowed, ok := arr[0].(int64)
	if !ok {
		return true
	}
	return allowed == 1
}

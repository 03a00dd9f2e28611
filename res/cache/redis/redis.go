package redis

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"shiningstar-api/res/cache"

	goredis "github.com/redis/go-redis/v9"
)

// rateLimitScript bumps the counter and sets the window expiry atomically.
// INCR followed by a separate PEXPIRE would leak keys without a TTL if the
// process died between the two calls.
var rateLimitScript = goredis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// limiter implements the RateLimiter and Deduper interfaces on Redis
type limiter struct {
	client goredis.UniversalClient
	prefix string
	logger *log.Logger
}

// New creates a new limiter backed by the given Redis URL. A nil limiter is
// returned when the URL is empty so callers can degrade gracefully.
func New(redisURL, prefix string, logger *log.Logger) (*limiter, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	trimmedPrefix := strings.TrimSpace(prefix)
	if trimmedPrefix == "" {
		trimmedPrefix = "shiningstar:rate_limit"
	}
	trimmedPrefix = strings.TrimSuffix(trimmedPrefix, ":")

	return &limiter{
		client: goredis.NewClient(opts),
		prefix: trimmedPrefix,
		logger: logger,
	}, nil
}

func (r *limiter) Consume(ctx context.Context, scope, subject string, window time.Duration) (cache.Result, error) {
	if r == nil || r.client == nil {
		return cache.Result{}, nil
	}

	normalizedScope := strings.TrimSpace(scope)
	normalizedSubject := strings.TrimSpace(subject)
	if normalizedScope == "" || normalizedSubject == "" {
		return cache.Result{}, nil
	}

	windowMs := window.Milliseconds()
	if windowMs < 1000 {
		windowMs = 1000
	}

	key := fmt.Sprintf("%s:%s:%s", r.prefix, normalizedScope, normalizedSubject)
	rawResult, err := rateLimitScript.Run(ctx, r.client, []string{key}, windowMs).Result()
	if err != nil {
		return cache.Result{}, err
	}

	values, ok := rawResult.([]interface{})
	if !ok || len(values) != 2 {
		return cache.Result{}, fmt.Errorf("unexpected redis limiter response shape: %T", rawResult)
	}

	currentCount, ok := values[0].(int64)
	if !ok {
		return cache.Result{}, fmt.Errorf("unexpected redis limiter count type: %T", values[0])
	}

	ttlMs, ok := values[1].(int64)
	if !ok {
		return cache.Result{Count: int(currentCount)}, fmt.Errorf("unexpected redis limiter ttl type: %T", values[1])
	}
	if ttlMs < 0 {
		ttlMs = windowMs
	}

	retryAfter := int(math.Ceil(float64(ttlMs) / 1000.0))
	if retryAfter < 1 {
		retryAfter = 1
	}

	return cache.Result{Count: int(currentCount), RetryAfterSeconds: retryAfter}, nil
}

// MarkOnce claims the key with SETNX. Duplicate webhook deliveries across
// instances resolve to a single processor this way.
func (r *limiter) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if r == nil || r.client == nil {
		return true, nil
	}

	fullKey := fmt.Sprintf("%s:once:%s", r.prefix, strings.TrimSpace(key))
	claimed, err := r.client.SetNX(ctx, fullKey, 1, ttl).Result()
	if err != nil {
		return false, err
	}
	return claimed, nil
}

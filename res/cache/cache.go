package cache

import (
	"context"
	"time"
)

// RateLimiter defines the interface for distributed request throttling
type RateLimiter interface {
	// Consume records a hit against the scope/subject pair and reports the
	// running count for the current window. Callers compare Count against
	// their limit and use RetryAfterSeconds for the Retry-After header.
	Consume(ctx context.Context, scope, subject string, window time.Duration) (Result, error)
}

// Result describes the state of a rate-limit window after a hit
type Result struct {
	Count             int
	RetryAfterSeconds int
}

// Deduper defines the interface for cross-instance once-only guards
type Deduper interface {
	// MarkOnce claims the key for the given TTL. Returns false when another
	// instance already claimed it.
	MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Limiter combines throttling and dedup on one backend
type Limiter interface {
	RateLimiter
	Deduper
}

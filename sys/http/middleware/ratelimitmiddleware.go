package middleware

import (
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"shiningstar-api/res/cache"
)

const rateLimitedCode = "RATE_LIMITED"

// RateLimitMiddleware throttles a route by client IP using the shared Redis
// counter. A nil limiter disables throttling (single-instance dev setups).
// Redis outages fail open so bookings are never blocked by the cache tier.
func RateLimitMiddleware(logger *log.Logger, limiter cache.RateLimiter, scope string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Consume(r.Context(), scope, clientIP(r), window)
			if err != nil {
				logger.Printf("Rate limiter unavailable for scope %s: %v", scope, err)
				next.ServeHTTP(w, r)
				return
			}

			if result.Count > limit {
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfterSeconds))
				err := emitErrorResponse(w, http.StatusTooManyRequests, "Too many requests, please try again later", rateLimitedCode)
				if err != nil {
					logger.Printf("Error serializing error response: %s", err)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the X-Forwarded-For chain set by the load balancer
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for i := 0; i < len(forwarded); i++ {
			if forwarded[i] == ',' {
				return forwarded[:i]
			}
		}
		return forwarded
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

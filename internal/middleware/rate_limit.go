package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig holds request-per-minute rate limiting configuration.
// This is a coarse transport-level throttle; lockout of failing login
// attempts is handled separately by the auth service.
type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultRateLimit returns the default transport rate limit config.
// Generous enough that legitimate launcher traffic never trips it before
// the per-address failure lockout does.
func DefaultRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 60,
	}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		// Key on the socket address only. Forwarded headers are client
		// input unless a trusted proxy vouches for them, and that gate
		// lives in ExtractClientIP, not here.
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"error":"Rate limit exceeded"}`))
		}),
	)
}

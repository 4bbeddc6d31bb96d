package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestLimit int
	Window       time.Duration
}

// DefaultAuthRateLimit returns the default rate limit for the login
// endpoint: 5 attempts per minute per IP. This is a transport-level
// brake; per-account lockout reads the failed-login counter instead.
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestLimit: 5,
		Window:       time.Minute,
	}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestLimit,
		config.Window,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate_limit_exceeded"}`))
		}),
	)
}

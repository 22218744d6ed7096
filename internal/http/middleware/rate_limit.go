package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/diagnosis/clinic-bookings/internal/http/response"
)

// RateLimitStore is the counter backend; the redis cache store implements it.
type RateLimitStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Requests int           // Max requests per window
	Window   time.Duration // Time window duration
	Prefix   string        // Namespace for the counter keys
}

type RateLimiter struct {
	store  RateLimitStore
	config RateLimitConfig
}

func NewRateLimiter(store RateLimitStore, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{store: store, config: config}
}

// Middleware limits by client IP. Backend errors fail open.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)
			if ip == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Hash the key for privacy
			hasher := sha256.New()
			hasher.Write([]byte(rl.config.Prefix + ":ip:" + ip))
			key := fmt.Sprintf("ratelimit:%x", hasher.Sum(nil))

			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			count, err := rl.store.Incr(ctx, key, rl.config.Window)
			cancel()
			if err == nil && count > int64(rl.config.Requests) {
				response.RateLimit(w, "Too many requests. Try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the real client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

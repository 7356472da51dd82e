package middleware

import (
	"errors"
	"net"
	"net/http"

	"github.com/RoyceAzure/lab/qkart/internal/infra/ratelimit"
)

var ErrTooManyRequests = errors.New("Too many requests, please try again later")

// RateLimitMiddleware 以 client IP 為 key, 需放在 chi RealIP 之後
func RateLimitMiddleware(limiter ratelimit.ILimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.Context(), clientIP(r)) {
				http.Error(w, ErrTooManyRequests.Error(), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/avelichko/inkwell/internal/handlers/render"
)

// RateLimit applies a per client IP token bucket to every request.
// rps tokens refill per second up to burst. Limiters for distinct IPs live
// in a sync.Map for the process lifetime, which is fine for the expected
// number of distinct clients
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	var limiters sync.Map // map[string]*rate.Limiter

	getLimiter := func(key string) *rate.Limiter {
		if limiter, ok := limiters.Load(key); ok {
			return limiter.(*rate.Limiter)
		}

		limiter := rate.NewLimiter(rate.Limit(rps), burst)
		actual, _ := limiters.LoadOrStore(key, limiter)
		return actual.(*rate.Limiter)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !getLimiter(clientIP(r)).Allow() {
				render.Error(w, http.StatusTooManyRequests, render.CodeBadRequest,
					"You have sent too many requests in a given amount of time. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client address, honoring proxy headers
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip, _, ok := strings.Cut(xff, ","); ok || ip != "" {
			return strings.TrimSpace(ip)
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

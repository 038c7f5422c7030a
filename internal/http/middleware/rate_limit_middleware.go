package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"commerce-backend/internal/http/response"
)

// RateLimiter is a per-IP fixed-window limiter. State is process-local; each
// instance guards one route group.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*windowState
	sweep   time.Time
}

type windowState struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*windowState),
		sweep:   time.Now().Add(window),
	}
}

func (rl *RateLimiter) allow(key string) (allowed bool, remaining int, resetAt time.Time) {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.After(rl.sweep) {
		for k, s := range rl.windows {
			if now.After(s.resetAt) {
				delete(rl.windows, k)
			}
		}
		rl.sweep = now.Add(rl.window)
	}

	s, ok := rl.windows[key]
	if !ok || now.After(s.resetAt) {
		s = &windowState{resetAt: now.Add(rl.window)}
		rl.windows[key] = s
	}
	if s.count >= rl.limit {
		return false, 0, s.resetAt
	}
	s.count++
	return true, rl.limit - s.count, s.resetAt
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, resetAt := rl.allow(clientIP(r))
			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
			if !allowed {
				h.Set("Retry-After", strconv.Itoa(int(time.Until(resetAt).Seconds())+1))
				response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

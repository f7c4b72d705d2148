// Package middleware provides HTTP middleware for the Chefhut backend.
package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/chefhut/pkg/response"
)

// limiter holds per-client fixed-window counters. One limiter per
// RateLimit call, so different route groups can carry different budgets.
type limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	windows map[string]*clientWindow
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

func newLimiter(max int, window time.Duration) *limiter {
	l := &limiter{max: max, window: window, windows: map[string]*clientWindow{}}
	go l.evictLoop()
	return l
}

func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cw, ok := l.windows[key]
	if !ok || now.After(cw.resetAt) {
		cw = &clientWindow{resetAt: now.Add(l.window)}
		l.windows[key] = cw
	}
	cw.count++
	return cw.count <= l.max
}

// evictLoop drops expired windows so the map does not grow without bound
// on long-running servers.
func (l *limiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for key, cw := range l.windows {
			if now.After(cw.resetAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

// clientKey identifies the caller: first X-Forwarded-For hop when present,
// otherwise the connection's remote host.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit limits each client to max requests per window.
// Example: middleware.RateLimit(300, time.Minute)
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, window)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientKey(r)) {
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Package ratelimit throttles requests per client address.
package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type window struct {
	hits  int
	start time.Time
}

// Limiter allows a fixed number of hits per key in each window.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

// New returns a limiter allowing limit hits per key every period.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records a hit for key. When the key is over its limit it returns
// false and the time left until the window resets.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.period {
		l.windows[key] = &window{hits: 1, start: now}
		return true, 0
	}
	if w.hits < l.limit {
		w.hits++
		return true, 0
	}
	return false, l.period - now.Sub(w.start)
}

// sweep drops windows that ended long ago. Callers hold l.mu.
func (l *Limiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) > 5*l.period {
			delete(l.windows, key)
		}
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header. Requests are keyed by client IP, so it belongs after
// middleware.RealIP.
func Middleware(l *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			ok, retry := l.Allow(ip)
			if !ok {
				slog.Warn("rate limit exceeded", "path", r.URL.Path, "ip", ip, "retry_after", retry)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
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

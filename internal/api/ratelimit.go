package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// rateLimiter enforces a fixed-window request quota per client IP.
// A window opens on a client's first request and closes one window
// length later; requests beyond the limit inside an open window are
// rejected. A limit of zero disables the quota.
type rateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time // replaced in tests

	mu        sync.Mutex
	clients   map[string]*clientWindow
	lastSweep time.Time
}

type clientWindow struct {
	start time.Time
	count int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*clientWindow),
	}
}

// allow records a request from addr and reports whether it fits the
// current window. When the quota is exhausted it also returns how
// long the client has to wait for the window to close.
func (l *rateLimiter) allow(addr string) (bool, time.Duration) {
	if l.limit <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	cw, ok := l.clients[addr]
	if !ok || now.Sub(cw.start) >= l.window {
		l.clients[addr] = &clientWindow{start: now, count: 1}
		return true, 0
	}
	if cw.count >= l.limit {
		return false, cw.start.Add(l.window).Sub(now)
	}
	cw.count++
	return true, 0
}

// sweep drops expired windows so idle clients do not accumulate.
// Runs at most once per window length.
func (l *rateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for addr, cw := range l.clients {
		if now.Sub(cw.start) >= l.window {
			delete(l.clients, addr)
		}
	}
}

// rateLimitMiddleware rejects clients that exceed the per-IP quota
// with 429 and a Retry-After hint. Health endpoints are exempt so
// monitoring probes never trip the quota.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/api/v1/health" {
			next.ServeHTTP(w, r)
			return
		}

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		ok, retryAfter := s.limiter.allow(host)
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter/time.Second)+1))
			writeError(w, http.StatusTooManyRequests, ErrCodeRateLimited, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gearbox-ai/gearbox/internal/models"
)

// clientWindow tracks the request timestamps of one client inside the
// sliding window
type clientWindow struct {
	mu   sync.Mutex
	hits []time.Time
}

// take prunes timestamps older than the window and records the current
// request if the budget allows it
func (cw *clientWindow) take(limit int, window time.Duration) (remaining int, ok bool) {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)
	live := cw.hits[:0]
	for _, ts := range cw.hits {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}
	cw.hits = live

	if len(cw.hits) >= limit {
		return 0, false
	}
	cw.hits = append(cw.hits, now)
	return limit - len(cw.hits), true
}

// RateLimiter applies a per-client sliding-window request budget. Clients
// are keyed by API key when present, remote address otherwise. Idle windows
// are swept on lookup once per window, so the limiter needs no background
// goroutine.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientWindow
	limit     int
	window    time.Duration
	lastSweep time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*clientWindow),
		limit:     limit,
		window:    window,
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) client(key string) *clientWindow {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastSweep) > rl.window {
		rl.sweepLocked()
	}

	cw, ok := rl.clients[key]
	if !ok {
		cw = &clientWindow{}
		rl.clients[key] = cw
	}
	return cw
}

// sweepLocked drops clients whose newest hit has aged out of the window.
// Caller holds rl.mu.
func (rl *RateLimiter) sweepLocked() {
	cutoff := time.Now().Add(-rl.window)
	for key, cw := range rl.clients {
		cw.mu.Lock()
		idle := len(cw.hits) == 0 || cw.hits[len(cw.hits)-1].Before(cutoff)
		cw.mu.Unlock()
		if idle {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = time.Now()
}

// Handler is the middleware form of the limiter
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		if key == "" {
			key = r.RemoteAddr
		}

		remaining, ok := rl.client(key).take(rl.limit, rl.window)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			models.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit builds a limiter allowing limit requests per client per window
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return NewRateLimiter(limit, window).Handler
}

package gateway

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiter is a per-client sliding-window admission control.
// For each client it keeps the timestamps of requests observed within
// the trailing window; a request is admitted while the count is below
// the ceiling. Not a token bucket: burst tolerance equals the full
// per-window ceiling, and rejected requests consume nothing.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string][]time.Time
	now     func() time.Time
	logger  *slog.Logger
}

// NewRateLimiter creates a limiter admitting up to limit requests per
// client within a sliding 60-second window.
func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		window:  time.Minute,
		limit:   limit,
		clients: make(map[string][]time.Time),
		now:     time.Now,
		logger:  slog.Default().With("component", "ratelimit"),
	}
}

// Admit reports whether a request from clientID is allowed. The current
// timestamp is recorded on acceptance only.
func (l *RateLimiter) Admit(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.clients[clientID][:0]
	for _, ts := range l.clients[clientID] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.limit {
		l.clients[clientID] = recent
		l.logger.Debug("rate limit exceeded", "client", clientID, "count", len(recent))
		return false
	}

	l.clients[clientID] = append(recent, now)
	return true
}

// Sweep drops clients whose entire request history has aged out of the
// window, bounding memory under many distinct clients.
func (l *RateLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	for client, stamps := range l.clients {
		stale := true
		for _, ts := range stamps {
			if ts.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(l.clients, client)
		}
	}
}

// Run sweeps stale clients at the given interval until ctx is done.
func (l *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// clientCount returns how many clients are currently tracked.
func (l *RateLimiter) clientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

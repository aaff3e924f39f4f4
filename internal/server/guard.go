package server

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

type client struct {
	limiter    *rate.Limiter
	failedAuth atomic.Int32
	rejected   atomic.Int32
}

// ClientGuard keeps a token bucket and a failed-auth counter per client IP.
// A client is forgotten one window after it was first seen, which resets
// its counters.
type ClientGuard struct {
	mu      sync.Mutex
	clients *expirable.LRU[string, *client]
	limit   rate.Limit
	burst   int
}

func NewClientGuard() *ClientGuard {
	return NewClientGuardWithLimits(DetectorWindow, MaxRequestsPerWindow)
}

// NewClientGuardWithLimits allows a burst of maxRequests per IP, refilled
// evenly across window.
func NewClientGuardWithLimits(window time.Duration, maxRequests int) *ClientGuard {
	return &ClientGuard{
		clients: expirable.NewLRU[string, *client](MaxTrackedClients, nil, window),
		limit:   rate.Limit(float64(maxRequests) / window.Seconds()),
		burst:   maxRequests,
	}
}

func (g *ClientGuard) get(ip string) *client {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.clients.Get(ip); ok {
		return c
	}
	c := &client{limiter: rate.NewLimiter(g.limit, g.burst)}
	g.clients.Add(ip, c)
	return c
}

// Allow spends one token for ip and reports whether the request may proceed
func (g *ClientGuard) Allow(ip string) bool {
	c := g.get(ip)
	if c.limiter.Allow() {
		return true
	}
	if n := c.rejected.Add(1); n%HighRateLogEvery == 1 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "rejected", n)
	}
	return false
}

// RecordFailedAuth counts a bad API key from ip, alerting past the threshold
func (g *ClientGuard) RecordFailedAuth(ip string) {
	if n := g.get(ip).failedAuth.Add(1); n >= FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", n)
	}
}

// FailedAuths returns the failed attempts currently remembered for ip
func (g *ClientGuard) FailedAuths(ip string) int {
	c, ok := g.clients.Peek(ip)
	if !ok {
		return 0
	}
	return int(c.failedAuth.Load())
}

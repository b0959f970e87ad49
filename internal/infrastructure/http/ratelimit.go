package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"pricerelay-service/internal/infrastructure/logx"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultLimiterIdleTTL = 10 * time.Minute
	maxLimiters           = 10000
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller, falling back to the client
// host. Buckets idle for longer than idleTTL are evicted.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(rps, burst int) *RateLimiter {
	if burst <= 0 {
		burst = rps
	}
	return &RateLimiter{
		limiters:  map[string]*limiterEntry{},
		rate:      rate.Limit(rps),
		burst:     burst,
		idleTTL:   defaultLimiterIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	e, ok := rl.limiters[key]
	if !ok {
		if now.Sub(rl.lastSweep) >= rl.idleTTL || len(rl.limiters) >= maxLimiters {
			rl.sweepLocked(now)
		}
		e = &limiterEntry{lim: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = e
	}
	e.lastSeen = now
	return e.lim
}

// Cleanup drops buckets not used within idleTTL and returns how many remain.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.sweepLocked(rl.now())
	return len(rl.limiters)
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	for k, e := range rl.limiters {
		if now.Sub(e.lastSeen) >= rl.idleTTL {
			delete(rl.limiters, k)
		}
	}
	// every bucket is active: start over rather than grow without bound
	if len(rl.limiters) >= maxLimiters {
		rl.limiters = make(map[string]*limiterEntry)
	}
	rl.lastSweep = now
}

func clientKey(r *http.Request) string {
	if id := CallerFromContext(r.Context()); !id.IsZero() {
		return id.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !rl.limiter(key).Allow() {
			logx.WithFields(r.Context()).Warn("http.rate_limited", zap.String("key", key))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

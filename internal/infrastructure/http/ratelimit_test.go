package httpserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func limitedHandler(rl *RateLimiter) http.Handler {
	return rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hitFrom(h http.Handler, remote string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiter_SameHostDifferentPorts(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	h := limitedHandler(rl)

	require.Equal(t, http.StatusOK, hitFrom(h, "10.0.0.1:40000"))
	require.Equal(t, http.StatusTooManyRequests, hitFrom(h, "10.0.0.1:40001"))

	allowed := 0
	for i := 0; i < 100; i++ {
		if hitFrom(h, fmt.Sprintf("10.0.0.1:%d", 41000+i)) == http.StatusOK {
			allowed++
		}
	}
	require.LessOrEqual(t, allowed, 1)
	require.Len(t, rl.limiters, 1)

	require.Equal(t, http.StatusOK, hitFrom(h, "10.0.0.2:40000"))
	require.Equal(t, http.StatusOK, hitFrom(h, "[2001:db8::1]:5000"))
	require.Len(t, rl.limiters, 3)
}

func TestRateLimiter_EvictsIdleBuckets(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return clock }
	rl.lastSweep = clock
	h := limitedHandler(rl)

	for i := 0; i < 5; i++ {
		hitFrom(h, fmt.Sprintf("10.0.1.%d:1234", i))
	}
	require.Len(t, rl.limiters, 5)

	clock = clock.Add(defaultLimiterIdleTTL / 2)
	hitFrom(h, "10.0.1.0:1234")
	require.Equal(t, 5, rl.Cleanup())

	clock = clock.Add(defaultLimiterIdleTTL)
	require.Equal(t, 0, rl.Cleanup())

	// a new key after the idle window sweeps stale buckets on its own
	for i := 0; i < 5; i++ {
		hitFrom(h, fmt.Sprintf("10.0.2.%d:1234", i))
	}
	clock = clock.Add(defaultLimiterIdleTTL)
	hitFrom(h, "10.0.3.1:1234")
	require.Len(t, rl.limiters, 1)
}

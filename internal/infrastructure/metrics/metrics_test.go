package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountersAndHandler(t *testing.T) {
	m := New("pricerelay")
	m.RelayOutcome("ok")
	m.RelayOutcome("ok")
	m.RelayOutcome("AccountStateModified")
	m.OracleLookup("PriceUnavailable")
	m.ObserveHTTP("/v1/prices/fetch", 200, 5*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.relayOutcomes.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.relayOutcomes.WithLabelValues("AccountStateModified")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.oracleLookups.WithLabelValues("PriceUnavailable")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/v1/prices/fetch", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	require.Contains(t, string(body), `pricerelay_relay_requests_total{outcome="ok"} 2`)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		_ = New("a")
		_ = New("a")
	})
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("application", 20*time.Millisecond)
	m.ObserveRequest("application", 10*time.Millisecond)
	m.ObserveRequest("asset", time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RoutesClassified.WithLabelValues("application")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RoutesClassified.WithLabelValues("asset")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveNavigation("discarded")
	m.RateLimited.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `pobbin_navigations_total{outcome="discarded"} 1`)
	assert.Contains(t, body, "pobbin_rate_limited_total 1")
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest(http.MethodGet, "/jobs/{id}", http.StatusOK, 20*time.Millisecond)
	c.RecordRequest(http.MethodGet, "/jobs/{id}", http.StatusOK, 30*time.Millisecond)
	c.RecordRequest(http.MethodPut, "/jobs/{id}", http.StatusForbidden, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/jobs/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("PUT", "/jobs/{id}", "403")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.latency))
}

func TestCollectorRecordsRateLimited(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.RecordRateLimited("auth")
	c.RecordRateLimited("auth")
	assert.Equal(t, 2.0, testutil.ToFloat64(c.rateLimited.WithLabelValues("auth")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "carehire_http_requests_total"))
}

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carehire/carehire-api/internal/api/shared"
)

// recordingMetrics captures what the request logger and rate limiter record.
type recordingMetrics struct {
	routes  []string
	codes   []int
	limited []string
}

func (m *recordingMetrics) RecordRequest(_ string, route string, status int, _ time.Duration) {
	m.routes = append(m.routes, route)
	m.codes = append(m.codes, status)
}

func (m *recordingMetrics) RecordRateLimited(class string) {
	m.limited = append(m.limited, class)
}

func quietFaults() *shared.FaultHandler {
	return shared.NewFaultHandler(true, slog.New(slog.DiscardHandler))
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

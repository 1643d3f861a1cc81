package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/platform/logger"
)

func TestCorrelation(t *testing.T) {
	buf, log := logger.SetupTestLogger(t)

	var seen string
	h := Correlation(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.CorrelationID(r.Context())
		logger.FromContext(r.Context()).InfoContext(r.Context(), "handler ran")
	}))

	t.Run("reuses inbound id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
		req.Header.Set(shared.CorrelationHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(shared.CorrelationHeader))
		entry := buf.Find("handler ran")
		if assert.NotNil(t, entry) {
			assert.Equal(t, "abc-123", entry["correlation_id"])
		}
	})

	t.Run("generates a fresh id per request", func(t *testing.T) {
		first := httptest.NewRecorder()
		h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/jobs", nil))
		second := httptest.NewRecorder()
		h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/jobs", nil))

		a := first.Header().Get(shared.CorrelationHeader)
		b := second.Header().Get(shared.CorrelationHeader)
		_, err := uuid.Parse(a)
		assert.NoError(t, err)
		assert.NotEqual(t, a, b)
		assert.Equal(t, b, seen)
	})
}

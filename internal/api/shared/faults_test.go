package shared

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/platform/logger"
)

func TestFaultHandlerRespond(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		status      int
		class       string
		code        string
		message     string
		withDetails bool
	}{
		{
			name:    "not found",
			err:     apperr.NotFound("Job"),
			status:  http.StatusNotFound,
			class:   "NotFoundError",
			code:    "NOT_FOUND",
			message: "Job not found",
		},
		{
			name:    "expired token",
			err:     apperr.Unauthorized(apperr.CodeTokenExpired, "Token has expired"),
			status:  http.StatusUnauthorized,
			class:   "UnauthorizedError",
			code:    apperr.CodeTokenExpired,
			message: "Token has expired",
		},
		{
			name:        "validation keeps field details",
			err:         apperr.Validation([]apperr.FieldError{{Field: "first_name", Message: "is required"}}),
			status:      http.StatusBadRequest,
			class:       "ValidationError",
			code:        apperr.CodeValidation,
			message:     "Validation failed",
			withDetails: true,
		},
		{
			name:    "cap exceeded",
			err:     apperr.MaxEntries("education", 10),
			status:  http.StatusBadRequest,
			class:   "DatabaseError",
			code:    apperr.CodeMaxEntries,
			message: apperr.MaxEntries("education", 10).Message,
		},
		{
			name:    "wrapped app error",
			err:     errors.Join(errors.New("context"), apperr.Forbidden("nope")),
			status:  http.StatusForbidden,
			class:   "ForbiddenError",
			code:    apperr.CodeForbidden,
			message: "nope",
		},
		{
			name:        "plain error becomes internal",
			err:         errors.New("boom"),
			status:      http.StatusInternalServerError,
			class:       "InternalError",
			code:        apperr.CodeInternal,
			message:     "An unexpected error occurred",
			withDetails: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewFaultHandler(false, slog.New(slog.DiscardHandler))
			rec := httptest.NewRecorder()
			h.Respond(rec, newRequest("corr-f"), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.class, body["error"])
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, tt.message, body["message"])
			assert.Equal(t, "corr-f", body["correlationId"])
			if tt.withDetails {
				assert.NotEmpty(t, body["details"])
			} else {
				assert.NotContains(t, body, "details")
			}
		})
	}
}

func TestFaultHandlerHidesCauseInProduction(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp postgres://app:hunter2@db:5432 refused")

	dev := httptest.NewRecorder()
	NewFaultHandler(false, nil).Respond(dev, newRequest("c"), apperr.Internal(cause))
	details, ok := decodeBody(t, dev)["details"].([]any)
	if assert.True(t, ok) && assert.Len(t, details, 1) {
		assert.Contains(t, details[0], "refused")
		assert.NotContains(t, details[0], "hunter2")
	}

	prod := httptest.NewRecorder()
	NewFaultHandler(true, nil).Respond(prod, newRequest("c"), apperr.Internal(cause))
	body := decodeBody(t, prod)
	assert.NotContains(t, body, "details")
	assert.NotContains(t, prod.Body.String(), "refused")
}

func TestFaultHandlerRateLimitedSetsRetryAfter(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewFaultHandler(true, nil).Respond(rec, newRequest("c"), apperr.RateLimited())

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, apperr.CodeRateLimited, decodeBody(t, rec)["code"])
}

func TestFaultHandlerLogLevels(t *testing.T) {
	buf, log := logger.SetupTestLogger(t)
	h := NewFaultHandler(true, log)

	tests := []struct {
		err   error
		level string
	}{
		{err: apperr.Internal(errors.New("token Bearer abc.def")), level: "ERROR"},
		{err: apperr.RateLimited(), level: "WARN"},
		{err: apperr.NotFound("Job"), level: "DEBUG"},
	}
	for _, tt := range tests {
		h.Respond(httptest.NewRecorder(), newRequest("c"), tt.err)
	}

	entries := buf.Entries()
	if assert.Len(t, entries, len(tests)) {
		for i, tt := range tests {
			assert.Equal(t, tt.level, entries[i]["level"])
			assert.Equal(t, "API error response", entries[i]["msg"])
		}
	}
	assert.NotContains(t, buf.String(), "abc.def")
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/platform/logger"
	"github.com/carehire/carehire-api/internal/service/auth"
)

// handler carries what every resource handler needs.
type handler struct {
	faults *shared.FaultHandler
	logger *slog.Logger
}

func newHandler(faults *shared.FaultHandler, log *slog.Logger, component string) handler {
	if faults == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("fault handler cannot be nil for " + component)
	}
	if log == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for " + component)
	}
	return handler{
		faults: faults,
		logger: log.With(slog.String("component", component)),
	}
}

// fail renders err as the error envelope.
func (h handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.faults.Respond(w, r, err)
}

func (h handler) log(r *http.Request) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), h.logger)
}

// caller returns the identity installed by the authentication middleware, or
// nil on anonymous routes.
func caller(r *http.Request) *auth.Identity {
	return shared.IdentityFrom(r.Context())
}

// pathUUID parses the named chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, apperr.Validation([]apperr.FieldError{{Field: name, Message: "is required", Tag: "required"}})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation([]apperr.FieldError{{Field: name, Message: "must be a valid UUID", Tag: "uuid"}})
	}
	return id, nil
}

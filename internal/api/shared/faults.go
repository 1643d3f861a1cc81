package shared

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/platform/logger"
	"github.com/carehire/carehire-api/internal/redact"
)

// FaultHandler renders every failure of a request as the error envelope. It
// is the only place where errors become responses.
type FaultHandler struct {
	production bool
	logger     *slog.Logger
}

// NewFaultHandler creates a FaultHandler. Outside production, 5xx envelopes
// carry the redacted cause in details.
func NewFaultHandler(production bool, log *slog.Logger) *FaultHandler {
	if log == nil {
		log = slog.Default()
	}
	return &FaultHandler{production: production, logger: log}
}

// Respond writes err to w. Errors that are not an *apperr.Error are treated
// as internal failures.
func (h *FaultHandler) Respond(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Internal(err)
	}

	env := Envelope{
		Success:       false,
		Error:         appErr.Kind.String(),
		Message:       appErr.Message,
		Code:          appErr.Code,
		CorrelationID: CorrelationID(r.Context()),
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		env.Details = appErr.Details
	case apperr.KindInternal, apperr.KindDatabase:
		if appErr.Status >= http.StatusInternalServerError && !h.production && appErr.Err != nil {
			env.Details = []string{redact.Error(appErr.Err)}
		}
	case apperr.KindRateLimited:
		if w.Header().Get("Retry-After") == "" {
			w.Header().Set("Retry-After", "60")
		}
	}

	h.log(r, appErr)
	RespondWithJSON(w, r, appErr.Status, env)
}

func (h *FaultHandler) log(r *http.Request, appErr *apperr.Error) {
	ctx := r.Context()
	level := slog.LevelDebug
	switch {
	case appErr.Status >= http.StatusInternalServerError:
		level = slog.LevelError
	case appErr.Status == http.StatusTooManyRequests:
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status_code", appErr.Status),
		slog.String("error_class", appErr.Kind.String()),
		slog.String("code", appErr.Code),
		slog.String("user_message", appErr.Message),
	}
	if appErr.Err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(appErr.Err)),
			slog.String("error_type", fmt.Sprintf("%T", appErr.Err)))
	}
	logger.FromContextOrDefault(ctx, h.logger).LogAttrs(ctx, level, "API error response", attrs...)
}

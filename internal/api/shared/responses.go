package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/carehire/carehire-api/internal/platform/logger"
)

// Envelope is the JSON body of every response.
type Envelope struct {
	Success       bool   `json:"success"`
	Data          any    `json:"data,omitempty"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	Code          string `json:"code,omitempty"`
	Details       any    `json:"details,omitempty"`
	Pagination    any    `json:"pagination,omitempty"`
	CorrelationID string `json:"correlationId"`
}

// RespondWithJSON writes body as JSON with the given status code.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			ErrorContext(r.Context(), "failed to encode JSON response", "error", err)
	}
}

// RespondWithData writes a success envelope carrying data.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data any) {
	RespondWithJSON(w, r, status, Envelope{
		Success:       true,
		Data:          data,
		CorrelationID: CorrelationID(r.Context()),
	})
}

// RespondWithPage writes a success envelope carrying one page of a listing.
func RespondWithPage(w http.ResponseWriter, r *http.Request, data, pagination any) {
	RespondWithJSON(w, r, http.StatusOK, Envelope{
		Success:       true,
		Data:          data,
		Pagination:    pagination,
		CorrelationID: CorrelationID(r.Context()),
	})
}

// RespondWithMessage writes a success envelope carrying only a message.
func RespondWithMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithJSON(w, r, status, Envelope{
		Success:       true,
		Message:       message,
		CorrelationID: CorrelationID(r.Context()),
	})
}

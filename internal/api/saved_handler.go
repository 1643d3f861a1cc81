package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/service"
)

// SavedJobHandler serves the caller's bookmarked jobs.
type SavedJobHandler struct {
	handler
	saved *service.SavedJobService
}

// NewSavedJobHandler creates a SavedJobHandler.
func NewSavedJobHandler(saved *service.SavedJobService, faults *shared.FaultHandler, log *slog.Logger) *SavedJobHandler {
	return &SavedJobHandler{handler: newHandler(faults, log, "saved_job_handler"), saved: saved}
}

// Routes registers the saved job routes on r.
func (h *SavedJobHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Save)
	r.Delete("/{jobId}", h.Remove)
}

// List handles GET /saved-jobs.
func (h *SavedJobHandler) List(w http.ResponseWriter, r *http.Request) {
	saved, err := h.saved.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, saved)
}

// Save handles POST /saved-jobs.
func (h *SavedJobHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in service.SaveJobInput
	if err := shared.Bind(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	saved, err := h.saved.Save(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, saved)
}

// Remove handles DELETE /saved-jobs/{jobId}.
func (h *SavedJobHandler) Remove(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "jobId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.saved.Remove(r.Context(), caller(r), jobID); err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "Job removed from saved list")
}

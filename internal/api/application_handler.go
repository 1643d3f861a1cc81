package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/service"
)

// ApplicationHandler serves job applications.
type ApplicationHandler struct {
	handler
	applications *service.ApplicationService
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(applications *service.ApplicationService, faults *shared.FaultHandler, log *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{handler: newHandler(faults, log, "application_handler"), applications: applications}
}

// Routes registers the application routes on r.
func (h *ApplicationHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Apply)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Withdraw)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// Apply handles POST /applications.
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var in service.ApplicationInput
	if err := shared.Bind(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	app, err := h.applications.Apply(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log(r).InfoContext(r.Context(), "application submitted",
		"application_id", app.ID,
		"job_id", app.JobID)
	shared.RespondWithData(w, r, http.StatusCreated, app)
}

// List handles GET /applications.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.applications.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, apps)
}

// Get handles GET /applications/{id}.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	appID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	app, err := h.applications.Get(r.Context(), caller(r), appID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, app)
}

// Withdraw handles DELETE /applications/{id}.
func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	appID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.applications.Withdraw(r.Context(), caller(r), appID); err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "Application withdrawn successfully")
}

// UpdateStatus handles PATCH /applications/{id}/status.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	appID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in service.StatusInput
	if err := shared.Bind(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	app, err := h.applications.UpdateStatus(r.Context(), caller(r), appID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, app)
}

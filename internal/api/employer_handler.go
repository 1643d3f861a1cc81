package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/service"
)

// EmployerHandler serves the caller's employer profile and postings.
type EmployerHandler struct {
	handler
	employers *service.EmployerService
}

// NewEmployerHandler creates an EmployerHandler.
func NewEmployerHandler(employers *service.EmployerService, faults *shared.FaultHandler, log *slog.Logger) *EmployerHandler {
	return &EmployerHandler{handler: newHandler(faults, log, "employer_handler"), employers: employers}
}

// Routes registers the employer routes on r.
func (h *EmployerHandler) Routes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/", h.Create)
	r.Put("/", h.Update)
	r.Delete("/", h.Delete)
	r.Get("/jobs", h.ListJobs)
}

// Get handles GET /employer.
func (h *EmployerHandler) Get(w http.ResponseWriter, r *http.Request) {
	employer, err := h.employers.Get(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, employer)
}

// Create handles POST /employer.
func (h *EmployerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.EmployerInput
	if err := shared.Bind(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	employer, err := h.employers.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log(r).InfoContext(r.Context(), "employer profile created", "employer_id", employer.ID)
	shared.RespondWithData(w, r, http.StatusCreated, employer)
}

// Update handles PUT /employer.
func (h *EmployerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch service.EmployerPatch
	if err := shared.Bind(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	employer, err := h.employers.Update(r.Context(), caller(r), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, employer)
}

// Delete handles DELETE /employer.
func (h *EmployerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.employers.Delete(r.Context(), caller(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "Employer profile deleted successfully")
}

// ListJobs handles GET /employer/jobs.
func (h *EmployerHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.employers.ListJobs(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, jobs)
}

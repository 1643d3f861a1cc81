package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/service"
)

// JobHandler serves job postings.
type JobHandler struct {
	handler
	jobs *service.JobService
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(jobs *service.JobService, faults *shared.FaultHandler, log *slog.Logger) *JobHandler {
	return &JobHandler{handler: newHandler(faults, log, "job_handler"), jobs: jobs}
}

// PublicRoutes registers the routes open to anonymous callers. They should be
// mounted behind optional authentication.
func (h *JobHandler) PublicRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// ProtectedRoutes registers the routes that require an employer.
func (h *JobHandler) ProtectedRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/applications", h.Applications)
}

// List handles GET /jobs.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseJobFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.jobs.List(r.Context(), caller(r), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithPage(w, r, page.Jobs, page.Pagination)
}

// Get handles GET /jobs/{id}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	job, err := h.jobs.Get(r.Context(), caller(r), jobID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, job)
}

// Create handles POST /jobs.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.JobInput
	if err := shared.Bind(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	job, err := h.jobs.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log(r).InfoContext(r.Context(), "job posted", "job_id", job.ID)
	shared.RespondWithData(w, r, http.StatusCreated, job)
}

// Update handles PUT /jobs/{id}.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var patch service.JobPatch
	if err := shared.Bind(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	job, err := h.jobs.Update(r.Context(), caller(r), jobID, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, job)
}

// Delete handles DELETE /jobs/{id}.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.jobs.Delete(r.Context(), caller(r), jobID); err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "Job deleted successfully")
}

// Applications handles GET /jobs/{id}/applications.
func (h *JobHandler) Applications(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apps, err := h.jobs.Applications(r.Context(), caller(r), jobID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, apps)
}

// parseJobFilter reads the listing filters from the query string. page and
// limit default to the first page of DefaultPageSize jobs.
func parseJobFilter(q url.Values) (service.JobFilter, error) {
	f := service.JobFilter{
		Category:       strings.TrimSpace(q.Get("category")),
		EmploymentType: strings.TrimSpace(q.Get("employment_type")),
		Location:       strings.TrimSpace(q.Get("location")),
		Search:         strings.TrimSpace(q.Get("search")),
		Page:           1,
		Limit:          service.DefaultPageSize,
	}

	var details []apperr.FieldError
	intParam := func(name string, dst *int) {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			details = append(details, apperr.FieldError{Field: name, Message: "must be an integer", Tag: "number"})
			return
		}
		*dst = n
	}
	intParam("page", &f.Page)
	intParam("limit", &f.Limit)

	var salaryMin int
	if q.Get("salary_min") != "" {
		intParam("salary_min", &salaryMin)
		f.SalaryMin = &salaryMin
	}

	if len(details) > 0 {
		return f, apperr.Validation(details)
	}
	return f, shared.ValidateRequest(f)
}

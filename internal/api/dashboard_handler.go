package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/service"
)

// DashboardHandler serves the aggregate statistics pages. Dashboards always
// answer 200; missing data shows up as zeros.
type DashboardHandler struct {
	handler
	dashboards *service.DashboardService
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboards *service.DashboardService, faults *shared.FaultHandler, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{handler: newHandler(faults, log, "dashboard_handler"), dashboards: dashboards}
}

// Routes registers the dashboard routes on r.
func (h *DashboardHandler) Routes(r chi.Router) {
	r.Get("/job-seeker", h.JobSeeker)
	r.Get("/employer", h.Employer)
}

// JobSeeker handles GET /dashboard/job-seeker.
func (h *DashboardHandler) JobSeeker(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithData(w, r, http.StatusOK, h.dashboards.JobSeeker(r.Context(), caller(r)))
}

// Employer handles GET /dashboard/employer.
func (h *DashboardHandler) Employer(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithData(w, r, http.StatusOK, h.dashboards.Employer(r.Context(), caller(r)))
}

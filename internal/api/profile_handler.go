package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/service"
)

// ProfileHandler serves the caller's job seeker profile.
type ProfileHandler struct {
	handler
	profiles *service.ProfileService
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, faults *shared.FaultHandler, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{handler: newHandler(faults, log, "profile_handler"), profiles: profiles}
}

// Routes registers the profile routes on r.
func (h *ProfileHandler) Routes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/", h.Create)
	r.Put("/", h.Update)
	r.Delete("/", h.Delete)
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, profile)
}

// Create handles POST /profile.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.JobSeekerInput
	if err := shared.Bind(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	profile, err := h.profiles.Create(r.Context(), caller(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log(r).InfoContext(r.Context(), "job seeker profile created", "profile_id", profile.ID)
	shared.RespondWithData(w, r, http.StatusCreated, profile)
}

// Update handles PUT /profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch service.JobSeekerPatch
	if err := shared.Bind(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	profile, err := h.profiles.Update(r.Context(), caller(r), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, profile)
}

// Delete handles DELETE /profile.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.Delete(r.Context(), caller(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "Profile deleted successfully")
}

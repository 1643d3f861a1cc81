package api

import (
	"log/slog"
	"net/http"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/apperr"
)

// AuthHandler serves identity routes. Tokens are issued by the identity
// provider; this API only verifies them.
type AuthHandler struct {
	handler
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(faults *shared.FaultHandler, log *slog.Logger) *AuthHandler {
	return &AuthHandler{handler: newHandler(faults, log, "auth_handler")}
}

// Me handles GET /auth/me by echoing the verified identity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id := caller(r)
	if id == nil {
		h.fail(w, r, apperr.Unauthorized(apperr.CodeNoToken, "No authentication token provided"))
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, id.Claims)
}

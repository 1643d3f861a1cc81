package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/platform/logger"
	"github.com/carehire/carehire-api/internal/redact"
	"github.com/carehire/carehire-api/internal/store"
)

// DefaultProbeTimeout bounds the database probe when none is configured.
const DefaultProbeTimeout = 5 * time.Second

// HealthHandler serves liveness, readiness and full health checks. Readiness
// and full health run a single database probe.
type HealthHandler struct {
	db      store.Client
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewHealthHandler creates a HealthHandler probing db within timeout.
func NewHealthHandler(db store.Client, timeout time.Duration, log *slog.Logger) *HealthHandler {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("store cannot be nil for HealthHandler")
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &HealthHandler{
		db:      db,
		timeout: timeout,
		now:     time.Now,
		logger:  log.With(slog.String("component", "health_handler")),
	}
}

type liveResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type readyResponse struct {
	Status string `json:"status"`
}

type healthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// Live handles GET /health/live. It never touches dependencies.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, liveResponse{Status: "alive", Timestamp: h.now().UTC()})
}

// Ready handles GET /health/ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.probe(r.Context()); err != nil {
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, readyResponse{Status: "not_ready"})
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, readyResponse{Status: "ready"})
}

// Full handles GET /health.
func (h *HealthHandler) Full(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "healthy",
		Checks:    map[string]string{"database": "ok"},
		Timestamp: h.now().UTC(),
	}
	status := http.StatusOK
	if err := h.probe(r.Context()); err != nil {
		resp.Status = "unhealthy"
		resp.Checks["database"] = "error"
		status = http.StatusServiceUnavailable
	}
	shared.RespondWithJSON(w, r, status, resp)
}

func (h *HealthHandler) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	err := h.db.Ping(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, h.logger).WarnContext(ctx, "database probe failed",
			"error", redact.Error(err))
	}
	return err
}

package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/carehire/carehire-api/internal/api"
	"github.com/carehire/carehire-api/internal/config"
	"github.com/carehire/carehire-api/internal/platform/metrics"
	"github.com/carehire/carehire-api/internal/platform/storage"
	"github.com/carehire/carehire-api/internal/security"
	"github.com/carehire/carehire-api/internal/service"
	"github.com/carehire/carehire-api/internal/service/auth"
	"github.com/carehire/carehire-api/internal/store"
)

// application holds the wired dependencies of a running server.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	store    store.Client
	services *service.Services
	router   *api.Router
}

// newApplication wires services, token verification and the router on top of
// an already connected store. reg collects the HTTP metrics exposed at /metrics.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db store.Client,
	objects storage.ObjectStore,
	reg *prometheus.Registry,
) *application {
	if !cfg.Storage.Enabled() {
		logger.Warn("document storage is not configured; transfer URLs are unavailable")
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("auth.jwt_secret is not set; protected routes will answer SERVER_MISCONFIGURED")
	}

	services := service.New(service.Deps{
		Store:     db,
		Objects:   objects,
		Sanitizer: security.NewSanitizer(),
		Logger:    logger,
	})

	router := api.NewRouter(api.RouterDeps{
		Services:          services,
		Verifier:          auth.NewVerifier(cfg.Auth.JWTSecret),
		Store:             db,
		Logger:            logger,
		Metrics:           metrics.NewCollector(reg),
		MetricsHandler:    metrics.Handler(reg),
		Production:        cfg.Server.IsProduction(),
		CORSAllowedOrigin: cfg.Server.CORSAllowedOrigin,
		RateLimit:         cfg.RateLimit,
		ProbeTimeout:      cfg.Database.ProbeTimeout,
	})

	return &application{
		config:   cfg,
		logger:   logger,
		store:    db,
		services: services,
		router:   router,
	}
}

// cleanup releases background work owned by the application. The store is
// closed by whoever opened it.
func (app *application) cleanup() {
	app.router.Close()
	app.logger.Debug("application cleanup completed")
}

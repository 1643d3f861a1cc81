package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/carehire/carehire-api/internal/api/middleware"
	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/config"
	"github.com/carehire/carehire-api/internal/platform/metrics"
	"github.com/carehire/carehire-api/internal/service"
	"github.com/carehire/carehire-api/internal/service/auth"
	"github.com/carehire/carehire-api/internal/store"
)

// RouterDeps are the collaborators the router wires into handlers.
type RouterDeps struct {
	Services *service.Services
	Verifier *auth.Verifier
	Store    store.Client
	Logger   *slog.Logger

	// Metrics receives per-request observations; MetricsHandler, when set,
	// is served at /metrics.
	Metrics        metrics.Recorder
	MetricsHandler http.Handler

	Production        bool
	CORSAllowedOrigin string
	RateLimit         config.RateLimitConfig
	ProbeTimeout      time.Duration
}

// Router is the application's HTTP handler. Close releases the rate limiter's
// background goroutine.
type Router struct {
	chi.Router
	limiter *middleware.RateLimiter
}

// Close stops background work started by NewRouter.
func (rt *Router) Close() {
	rt.limiter.Stop()
}

// NewRouter assembles the middleware stack and every route.
func NewRouter(d RouterDeps) *Router {
	if d.Services == nil || d.Verifier == nil || d.Store == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("router requires services, verifier and store")
	}
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	recorder := d.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	faults := shared.NewFaultHandler(d.Production, log)
	authn := middleware.NewAuthenticator(d.Verifier, faults)
	limiter := middleware.NewRateLimiter(d.RateLimit, recorder, faults)

	svc := d.Services
	profiles := NewProfileHandler(svc.Profiles, faults, log)
	employers := NewEmployerHandler(svc.Employers, faults, log)
	jobs := NewJobHandler(svc.Jobs, faults, log)
	applications := NewApplicationHandler(svc.Applications, faults, log)
	education := NewCollectionHandler(svc.Educations, "Education entry", faults, log)
	experience := NewCollectionHandler(svc.Experiences, "Experience entry", faults, log)
	certifications := NewCollectionHandler(svc.Certifications, "Certification", faults, log)
	saved := NewSavedJobHandler(svc.SavedJobs, faults, log)
	documents := NewDocumentHandler(svc.Documents, faults, log)
	dashboards := NewDashboardHandler(svc.Dashboards, faults, log)
	identity := NewAuthHandler(faults, log)
	health := NewHealthHandler(d.Store, d.ProbeTimeout, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.Correlation(log))
	r.Use(middleware.SecurityHeaders(d.Production))
	r.Use(middleware.CORS(d.CORSAllowedOrigin))
	r.Use(middleware.RequestLogger(recorder))
	r.Use(middleware.Recover(faults))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		faults.Respond(w, r, apperr.RouteNotFound(r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		faults.Respond(w, r, apperr.MethodNotAllowed(r.Method))
	})

	// Probes and scrapes are not rate limited.
	r.Get("/health", health.Full)
	r.Get("/health/live", health.Live)
	r.Get("/health/ready", health.Ready)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(limiter.Limit(middleware.ClassGeneral))
		r.Use(limiter.Mutations())

		r.Route("/auth", func(r chi.Router) {
			r.Use(limiter.Limit(middleware.ClassAuth))
			r.Use(authn.Required)
			r.Get("/me", identity.Me)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authn.Optional)
				jobs.PublicRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(authn.Required)
				jobs.ProtectedRoutes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authn.Required)

			r.Route("/profile", func(r chi.Router) {
				profiles.Routes(r)
				r.Route("/education", education.Routes)
				r.Route("/experience", experience.Routes)
				r.Route("/certifications", certifications.Routes)
				r.Route("/documents", documents.Routes)
			})
			r.Route("/employer", employers.Routes)
			r.Route("/applications", applications.Routes)
			r.Route("/saved-jobs", saved.Routes)
			r.Route("/dashboard", dashboards.Routes)
		})
	})

	return &Router{Router: r, limiter: limiter}
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/carehire/carehire-api/internal/platform/logger"
	"github.com/carehire/carehire-api/internal/platform/storage"
	"github.com/carehire/carehire-api/internal/security"
	"github.com/carehire/carehire-api/internal/service/auth"
	"github.com/carehire/carehire-api/internal/store"
)

// Deps are the collaborators shared by every resource service.
type Deps struct {
	Store     store.Client
	Objects   storage.ObjectStore
	Sanitizer *security.Sanitizer
	Logger    *slog.Logger
	// Now overrides the clock used for derived values such as durations.
	Now func() time.Time
}

// base carries Deps into each service.
type base struct {
	db        store.Client
	objects   storage.ObjectStore
	sanitizer *security.Sanitizer
	logger    *slog.Logger
	now       func() time.Time
}

func newBase(d Deps, component string) base {
	if d.Store == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("store cannot be nil for " + component)
	}
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	objects := d.Objects
	if objects == nil {
		objects = storage.Disabled{}
	}
	san := d.Sanitizer
	if san == nil {
		san = security.NewSanitizer()
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return base{
		db:        d.Store,
		objects:   objects,
		sanitizer: san,
		logger:    log.With(slog.String("component", component)),
		now:       now,
	}
}

// scope returns a store scope bound to the caller's credential. Scopes are
// built per call and never kept.
func (b base) scope(id *auth.Identity) store.Scope {
	return b.db.Scope(id.Credential())
}

// log returns the request logger, falling back to the service logger.
func (b base) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, b.logger)
}

// Services groups every resource service.
type Services struct {
	Profiles       *ProfileService
	Employers      *EmployerService
	Jobs           *JobService
	Applications   *ApplicationService
	Educations     *EducationService
	Experiences    *ExperienceService
	Certifications *CertificationService
	SavedJobs      *SavedJobService
	Documents      *DocumentService
	Dashboards     *DashboardService
}

// New builds every service from d.
func New(d Deps) *Services {
	return &Services{
		Profiles:       NewProfileService(d),
		Employers:      NewEmployerService(d),
		Jobs:           NewJobService(d),
		Applications:   NewApplicationService(d),
		Educations:     NewEducationService(d),
		Experiences:    NewExperienceService(d),
		Certifications: NewCertificationService(d),
		SavedJobs:      NewSavedJobService(d),
		Documents:      NewDocumentService(d),
		Dashboards:     NewDashboardService(d),
	}
}

package background

import (
	"context"
	"sync"
	"time"

	"procurehub/internal/config"
	"procurehub/internal/repositories"
	"procurehub/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// MaintenanceScheduler runs the recurring upkeep of the procurement data set:
// sweeping legacy department aliases and rewarming the forest cache.
type MaintenanceScheduler struct {
	scheduler      gocron.Scheduler
	migrationSvc   services.MigrationService
	categorySvc    services.CategoryService
	departmentRepo repositories.DepartmentRepository
	migrations     []config.LegacyMigration
	jobs           map[string]gocron.Job
	mu             sync.RWMutex
}

func NewMaintenanceScheduler(migrationSvc services.MigrationService, categorySvc services.CategoryService,
	departmentRepo repositories.DepartmentRepository, migrations []config.LegacyMigration) (*MaintenanceScheduler, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	ms := &MaintenanceScheduler{
		scheduler:      scheduler,
		migrationSvc:   migrationSvc,
		categorySvc:    categorySvc,
		departmentRepo: departmentRepo,
		migrations:     migrations,
		jobs:           make(map[string]gocron.Job),
	}

	ms.registerJobs()
	return ms, nil
}

func (ms *MaintenanceScheduler) Start() {
	log.Info().Msg("starting maintenance scheduler")
	ms.scheduler.Start()
}

func (ms *MaintenanceScheduler) Stop() error {
	log.Info().Msg("stopping maintenance scheduler")
	return ms.scheduler.Shutdown()
}

func (ms *MaintenanceScheduler) registerJobs() {
	sweepJob, err := ms.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(ms.sweepLegacyDepartments, context.Background()),
		gocron.WithName("legacy-department-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create legacy sweep job")
	} else {
		ms.trackJob("legacy-sweep", sweepJob)
	}

	rewarmJob, err := ms.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(ms.rewarmForestCache, context.Background()),
		gocron.WithName("forest-cache-rewarm"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create cache rewarm job")
	} else {
		ms.trackJob("cache-rewarm", rewarmJob)
	}
}

func (ms *MaintenanceScheduler) trackJob(name string, job gocron.Job) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.jobs[name] = job
}

func (ms *MaintenanceScheduler) sweepLegacyDepartments(ctx context.Context) {
	for _, m := range ms.migrations {
		if err := ms.migrationSvc.MigrateLegacyDepartments(ctx, m.Canonical, m.Aliases); err != nil {
			log.Error().Err(err).Str("canonical", m.Canonical).Msg("legacy department sweep failed")
		}
	}
}

func (ms *MaintenanceScheduler) rewarmForestCache(ctx context.Context) {
	departments, err := ms.departmentRepo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list departments for cache rewarm")
		return
	}
	for _, department := range departments {
		if _, err := ms.categorySvc.RefreshForest(ctx, department.ID); err != nil {
			log.Error().Err(err).Str("department", department.Name).Msg("forest cache rewarm failed")
		}
	}
}

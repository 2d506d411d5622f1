// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/config"
	"github.com/aristath/yieldwise/internal/scheduler"
)

// databaseCheckSchedule runs the integrity check nightly
const databaseCheckSchedule = "30 4 * * *"

// JobInstances holds job instances for manual triggering
type JobInstances struct {
	ReloadComparables *scheduler.ReloadComparablesJob // nil without a configured source
	CheckDatabase     *scheduler.CheckDatabaseJob
}

// RegisterJobs creates the background jobs and registers them with the
// scheduler. The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)
	instances := &JobInstances{}

	instances.CheckDatabase = scheduler.NewCheckDatabaseJob(container.DB)
	instances.CheckDatabase.SetLogger(log.With().Str("job", "check_database").Logger())
	if err := sched.AddJob(databaseCheckSchedule, instances.CheckDatabase); err != nil {
		return nil, err
	}

	if source := cfg.Comparables.Source; source != "" {
		instances.ReloadComparables = scheduler.NewReloadComparablesJob(container.Importer, container.Telemetry, source)
		instances.ReloadComparables.SetLogger(log.With().Str("job", "reload_comparables").Logger())

		if spec := cfg.Comparables.ReloadSchedule; spec != "" {
			if err := sched.AddJob(spec, instances.ReloadComparables); err != nil {
				return nil, err
			}
		}
	}

	container.Scheduler = sched
	return instances, nil
}

// Package di provides dependency injection wiring and initialization.
package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/config"
	"github.com/aristath/yieldwise/internal/modules/settings"
)

// Wire initializes all dependencies and returns a fully configured container
// Order of operations:
// 1. Load the assumption profile
// 2. Initialize the database
// 3. Initialize external clients
// 4. Initialize services
// 5. Register jobs
func Wire(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, *JobInstances, error) {
	profile, err := settings.NewLoader(log).Load(cfg.ProfilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load profile: %w", err)
	}

	container, err := InitializeDatabase(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	container.Profile = profile

	if err := InitializeClients(ctx, container, cfg, log); err != nil {
		container.Close()
		return nil, nil, fmt.Errorf("failed to initialize clients: %w", err)
	}

	if err := InitializeServices(container, cfg, log); err != nil {
		container.Close()
		return nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	jobs, err := RegisterJobs(container, cfg, log)
	if err != nil {
		container.Close()
		return nil, nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	log.Info().Msg("Dependency injection wiring completed successfully")

	return container, jobs, nil
}

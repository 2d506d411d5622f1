// Package di provides dependency injection for service implementations.
package di

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/config"
	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/analysis"
	"github.com/aristath/yieldwise/internal/modules/comparables"
	"github.com/aristath/yieldwise/internal/modules/estimator"
	"github.com/aristath/yieldwise/internal/telemetry"
)

// InitializeServices builds repositories, the rent estimator chain and the
// analysis service
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container.DB == nil {
		return fmt.Errorf("database must be initialized before services")
	}

	container.Registry = prometheus.NewRegistry()
	container.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	container.Telemetry = telemetry.NewRecorder(container.Registry)

	container.ComparablesRepo = comparables.NewRepository(container.DB.Conn(), log)

	// ObjectStore is a typed nil pointer when S3 is not configured
	var objects comparables.ObjectOpener
	if container.ObjectStore != nil {
		objects = container.ObjectStore
	}
	container.Importer = comparables.NewImporter(container.ComparablesRepo, objects, log)

	container.RentEstimator = buildRentEstimator(container, cfg, log)

	svc, err := analysis.NewService(container.Profile, container.RentEstimator, container.ComparablesRepo, log)
	if err != nil {
		return fmt.Errorf("failed to create analysis service: %w", err)
	}
	svc.SetRecorder(container.Telemetry)
	container.AnalysisService = svc

	return nil
}

// buildRentEstimator chains the rent model (cached when Redis is configured)
// ahead of the comparables estimate. The price-ratio fallback is applied by
// the analysis service when the chain comes back empty.
func buildRentEstimator(container *Container, cfg *config.Config, log zerolog.Logger) domain.RentEstimator {
	var model domain.RentEstimator
	if container.RentModel != nil {
		model = container.RentModel
		if container.Redis != nil {
			model = estimator.NewCached(model, container.Redis, cfg.Redis.TTL, log)
		}
	}

	chain := estimator.NewChain(log, model, estimator.NewComparables(container.ComparablesRepo))
	log.Info().Int("estimators", chain.Len()).Msg("Rent estimator chain built")
	return chain
}

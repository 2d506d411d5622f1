// Package di provides dependency injection type definitions.
//
// The Container holds every long-lived dependency of the service and is
// handed to the server and CLI, which never construct collaborators of
// their own.
package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/aristath/yieldwise/internal/clients/objectstore"
	"github.com/aristath/yieldwise/internal/clients/rentmodel"
	"github.com/aristath/yieldwise/internal/database"
	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/analysis"
	"github.com/aristath/yieldwise/internal/modules/comparables"
	"github.com/aristath/yieldwise/internal/modules/settings"
	"github.com/aristath/yieldwise/internal/scheduler"
	"github.com/aristath/yieldwise/internal/telemetry"
)

// Container holds all dependencies for the application
type Container struct {
	// Database
	DB *database.DB

	// Settings
	Profile settings.Profile

	// Clients (nil when not configured)
	Redis       *redis.Client
	ObjectStore *objectstore.Client
	RentModel   *rentmodel.Client

	// Repositories
	ComparablesRepo *comparables.Repository

	// Services
	Importer        *comparables.Importer
	RentEstimator   domain.RentEstimator
	AnalysisService *analysis.Service

	// Monitoring
	Registry  *prometheus.Registry
	Telemetry *telemetry.Recorder

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// Close releases the connections held by the container
func (c *Container) Close() error {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

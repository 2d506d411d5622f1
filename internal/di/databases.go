// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/config"
	"github.com/aristath/yieldwise/internal/database"
)

// InitializeDatabase opens the comparables database and applies its schema
func InitializeDatabase(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// comparables.db - Imported sales dataset and import history.
	// Everything in it can be rebuilt from the source file.
	db, err := database.New(database.Config{
		Path:    cfg.DatabasePath(),
		Profile: database.ProfileCache,
		Name:    "comparables",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize comparables database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate comparables database: %w", err)
	}
	container.DB = db

	log.Info().Str("path", db.Path()).Msg("Database initialized")
	return container, nil
}

// Package di provides dependency injection for external clients.
package di

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/clients/objectstore"
	"github.com/aristath/yieldwise/internal/clients/rentmodel"
	"github.com/aristath/yieldwise/internal/config"
)

// InitializeClients creates the optional external clients.
// Clients that are not configured stay nil.
func InitializeClients(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	if cfg.RentModel.URL != "" {
		container.RentModel = rentmodel.NewClient(
			cfg.RentModel.URL,
			cfg.RentModel.Timeout,
			container.Profile.Rent.ModelMargin,
			log,
		)
		log.Info().Str("url", cfg.RentModel.URL).Msg("Rent model client configured")
	}

	if cfg.Redis.Addr != "" {
		container.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		// An unreachable cache is not fatal: estimates bypass it
		if err := container.Redis.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, rent cache will pass through")
		} else {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("Rent cache connected")
		}
	}

	if cfg.UsesS3() {
		client, err := objectstore.NewS3Client(ctx, objectstore.Config{
			Region:   cfg.S3.Region,
			Endpoint: cfg.S3.Endpoint,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to create s3 client: %w", err)
		}
		container.ObjectStore = client
	}

	return nil
}

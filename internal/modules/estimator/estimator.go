// Package estimator resolves monthly rent estimates from the available
// sources: the prediction model, a Redis cache in front of it, and the
// comparables dataset.
package estimator

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/domain"
)

// DefaultFallbackRatio is the monthly rent assumed per dollar of price
// when no estimator can answer
const DefaultFallbackRatio = 0.008

// Fallback returns the naive price-ratio estimate. It carries no margin.
func Fallback(price, ratio float64) domain.RentEstimate {
	if ratio <= 0 {
		ratio = DefaultFallbackRatio
	}
	return domain.RentEstimate{Point: price * ratio, Source: domain.RentSourceFallback}
}

// Chain asks each estimator in turn and returns the first positive estimate
type Chain struct {
	estimators []domain.RentEstimator
	log        zerolog.Logger
}

// NewChain creates a chain; nil estimators are skipped
func NewChain(log zerolog.Logger, estimators ...domain.RentEstimator) *Chain {
	c := &Chain{log: log.With().Str("component", "rent_estimator").Logger()}
	for _, e := range estimators {
		if e != nil {
			c.estimators = append(c.estimators, e)
		}
	}
	return c
}

// Len returns the number of estimators in the chain
func (c *Chain) Len() int {
	return len(c.estimators)
}

// EstimateRent implements domain.RentEstimator.
// It returns an error wrapping domain.ErrEstimatorUnavailable when every
// estimator fails or the chain is empty.
func (c *Chain) EstimateRent(ctx context.Context, features domain.PropertyFeatures) (domain.RentEstimate, error) {
	var errs []error
	for i, e := range c.estimators {
		if err := ctx.Err(); err != nil {
			return domain.RentEstimate{}, err
		}
		est, err := e.EstimateRent(ctx, features)
		if err == nil && est.Point > 0 {
			return est, nil
		}
		if err == nil {
			err = fmt.Errorf("non-positive estimate %.2f", est.Point)
		}
		c.log.Debug().Err(err).Int("estimator", i).Msg("Rent estimator did not answer")
		errs = append(errs, err)
	}
	return domain.RentEstimate{}, fmt.Errorf("%w: %w", domain.ErrEstimatorUnavailable, errors.Join(errs...))
}

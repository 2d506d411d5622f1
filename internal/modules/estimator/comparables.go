package estimator

import (
	"context"
	"fmt"

	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/comparables"
)

// Comparables estimates rent from the rent per square foot of the sales
// dataset, with the spread of that ratio as the margin
type Comparables struct {
	provider comparables.Provider
}

// NewComparables creates a comparables-based estimator
func NewComparables(provider comparables.Provider) *Comparables {
	return &Comparables{provider: provider}
}

// EstimateRent implements domain.RentEstimator
func (c *Comparables) EstimateRent(ctx context.Context, features domain.PropertyFeatures) (domain.RentEstimate, error) {
	table, err := c.provider.Comparables(ctx)
	if err != nil {
		return domain.RentEstimate{}, fmt.Errorf("%w: %w", domain.ErrEstimatorUnavailable, err)
	}

	point, ok := comparables.EstimateRentBySqft(table, features.Sqft)
	if !ok {
		return domain.RentEstimate{}, fmt.Errorf("%w: dataset has no rent data for this size", domain.ErrEstimatorUnavailable)
	}
	return domain.RentEstimate{
		Point:  point,
		Margin: comparables.RentSpreadBySqft(table, features.Sqft),
		Source: domain.RentSourceComparables,
	}, nil
}

package domain

import "context"

// RentEstimator produces a monthly rent estimate for a property.
// Implementations may call remote services; callers treat any error as
// "no estimate" and fall back rather than abort.
type RentEstimator interface {
	EstimateRent(ctx context.Context, features PropertyFeatures) (RentEstimate, error)
}

// RentEstimatorFunc adapts a function to RentEstimator
type RentEstimatorFunc func(ctx context.Context, features PropertyFeatures) (RentEstimate, error)

// EstimateRent calls f
func (f RentEstimatorFunc) EstimateRent(ctx context.Context, features PropertyFeatures) (RentEstimate, error) {
	return f(ctx, features)
}

// Package rentmodel provides a client for the rent prediction model service.
package rentmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldwise/internal/domain"
)

// DefaultMargin is the model's mean absolute error, used when the service
// reports no confidence range
const DefaultMargin = 289.24

// Client for the rent model HTTP service
type Client struct {
	baseURL string
	client  *http.Client
	margin  float64
	log     zerolog.Logger
}

// NewClient creates a new rent model client.
// A non-positive margin falls back to DefaultMargin.
func NewClient(baseURL string, timeout time.Duration, margin float64, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		margin:  margin,
		log:     log.With().Str("client", "rentmodel").Logger(),
	}
}

// predictResponse is the body returned by POST /predict
type predictResponse struct {
	PredictedRent   float64  `json:"predicted_rent"`
	ConfidenceRange *float64 `json:"confidence_range,omitempty"`
}

// EstimateRent asks the model for a monthly rent.
// Transport failures and non-positive predictions are returned as errors
// wrapping domain.ErrEstimatorUnavailable.
func (c *Client) EstimateRent(ctx context.Context, features domain.PropertyFeatures) (domain.RentEstimate, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return domain.RentEstimate{}, fmt.Errorf("failed to encode features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return domain.RentEstimate{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return domain.RentEstimate{}, fmt.Errorf("%w: %v", domain.ErrEstimatorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.RentEstimate{}, fmt.Errorf("%w: model returned status %d: %s",
			domain.ErrEstimatorUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.RentEstimate{}, fmt.Errorf("%w: failed to parse response: %v", domain.ErrEstimatorUnavailable, err)
	}
	if result.PredictedRent <= 0 {
		return domain.RentEstimate{}, fmt.Errorf("%w: non-positive prediction %.2f",
			domain.ErrEstimatorUnavailable, result.PredictedRent)
	}

	margin := c.margin
	if result.ConfidenceRange != nil && *result.ConfidenceRange >= 0 {
		margin = *result.ConfidenceRange
	}

	c.log.Debug().
		Float64("rent", result.PredictedRent).
		Float64("margin", margin).
		Dur("duration", time.Since(start)).
		Msg("Predicted rent")

	return domain.RentEstimate{
		Point:  result.PredictedRent,
		Margin: margin,
		Source: domain.RentSourceModel,
	}, nil
}

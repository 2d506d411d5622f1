package estimator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/yieldwise/internal/domain"
)

// DefaultCacheTTL is how long a model estimate is reused
const DefaultCacheTTL = 24 * time.Hour

const cacheKeyPrefix = "yieldwise:rent:"

// Cached stores estimates from another estimator in Redis, keyed by the
// property features. Cache failures never fail an estimate.
type Cached struct {
	next   domain.RentEstimator
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCached wraps next with a Redis cache
func NewCached(next domain.RentEstimator, client *redis.Client, ttl time.Duration, log zerolog.Logger) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "rent_cache").Logger(),
	}
}

// EstimateRent implements domain.RentEstimator. Hits are reported with
// domain.RentSourceCache.
func (c *Cached) EstimateRent(ctx context.Context, features domain.PropertyFeatures) (domain.RentEstimate, error) {
	key, err := cacheKey(features)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to build cache key")
		return c.next.EstimateRent(ctx, features)
	}

	if est, ok := c.get(ctx, key); ok {
		est.Source = domain.RentSourceCache
		return est, nil
	}

	est, err := c.next.EstimateRent(ctx, features)
	if err != nil {
		return est, err
	}
	c.set(ctx, key, est)
	return est, nil
}

func (c *Cached) get(ctx context.Context, key string) (domain.RentEstimate, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RentEstimate{}, false
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("Rent cache read failed")
		return domain.RentEstimate{}, false
	}

	var est domain.RentEstimate
	if err := msgpack.Unmarshal(data, &est); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return domain.RentEstimate{}, false
	}
	return est, true
}

func (c *Cached) set(ctx context.Context, key string, est domain.RentEstimate) {
	data, err := msgpack.Marshal(est)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to encode rent estimate")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("Rent cache write failed")
	}
}

// cacheKey hashes the msgpack encoding of the features, so equal
// properties share an entry regardless of how they were submitted
func cacheKey(features domain.PropertyFeatures) (string, error) {
	data, err := msgpack.Marshal(features)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}

package testing

import (
	"context"
	"sync"

	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/comparables"
)

// MockRentEstimator is a domain.RentEstimator returning a fixed answer
type MockRentEstimator struct {
	mu    sync.Mutex
	est   domain.RentEstimate
	err   error
	calls []domain.PropertyFeatures
}

// NewMockRentEstimator creates an estimator that always returns est and err
func NewMockRentEstimator(est domain.RentEstimate, err error) *MockRentEstimator {
	return &MockRentEstimator{est: est, err: err}
}

// EstimateRent records the call and returns the configured answer
func (m *MockRentEstimator) EstimateRent(_ context.Context, features domain.PropertyFeatures) (domain.RentEstimate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, features)
	return m.est, m.err
}

// Calls returns how many estimates were requested
func (m *MockRentEstimator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastFeatures returns the features of the most recent call
func (m *MockRentEstimator) LastFeatures() (domain.PropertyFeatures, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return domain.PropertyFeatures{}, false
	}
	return m.calls[len(m.calls)-1], true
}

// MockImporter is a comparables importer returning a fixed outcome
type MockImporter struct {
	mu        sync.Mutex
	record    *comparables.ImportRecord
	err       error
	locations []string
}

// NewMockImporter creates an importer that always returns record and err
func NewMockImporter(record *comparables.ImportRecord, err error) *MockImporter {
	return &MockImporter{record: record, err: err}
}

// Import records the location and returns the configured outcome
func (m *MockImporter) Import(_ context.Context, location string) (*comparables.ImportRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = append(m.locations, location)
	return m.record, m.err
}

// Locations returns every location passed to Import, in order
func (m *MockImporter) Locations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.locations...)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/comparables"
)

type failingProvider struct{ err error }

func (p failingProvider) Comparables(_ context.Context) (*comparables.Table, error) {
	return nil, p.err
}

func testTable() *comparables.Table {
	rec := func(address string, price, sqft, beds, baths float64) comparables.Record {
		return comparables.Record{
			Address: address, ZipCode: "53202", Price: price, Sqft: sqft, Beds: beds, Baths: baths,
			LotSize: math.NaN(), Rent: math.NaN(), PricePerSqft: price / sqft,
		}
	}
	return comparables.TableFromRecords([]comparables.Record{
		rec("1 Main St", 205000, 1500, 3, 2),
		rec("2 Main St", 190000, 1400, 3, 2),
		rec("3 Main St", 400000, 3000, 5, 3),
		rec("4 Main St", 175000, 1350, 3, 2),
	})
}

func newRouter(provider comparables.Provider) http.Handler {
	h := NewHandler(provider, comparables.NewFilter(comparables.DefaultCriteria()), 150, zerolog.Nop())
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleSearch(t *testing.T) {
	tests := []struct {
		name           string
		provider       comparables.Provider
		body           string
		expectedStatus int
		validate       func(*testing.T, map[string]interface{})
	}{
		{
			name:           "ranked comparables",
			provider:       comparables.NewStaticProvider(testTable()),
			body:           `{"address":"9 Main St","price":200000,"beds":3,"baths":2,"sqft":1500,"zip_code":"53202"}`,
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body map[string]interface{}) {
				result := body["comparables"].(map[string]interface{})
				assert.Equal(t, "found", result["status"])
				comps := result["comparables"].([]interface{})
				require.Len(t, comps, 2)
				assert.Equal(t, "1 Main St", comps[0].(map[string]interface{})["address"])
			},
		},
		{
			name:           "no dataset imported",
			provider:       failingProvider{err: domain.ErrNoDataset},
			body:           `{"address":"9 Main St","price":200000,"beds":3,"baths":2,"sqft":1500}`,
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body map[string]interface{}) {
				result := body["comparables"].(map[string]interface{})
				assert.Equal(t, "no_comparables", result["status"])
				assert.NotEmpty(t, result["reason"])
				assert.Empty(t, result["comparables"])
			},
		},
		{
			name:           "storage failure",
			provider:       failingProvider{err: errors.New("disk I/O error")},
			body:           `{"price":200000}`,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "malformed body",
			provider:       comparables.NewStaticProvider(testTable()),
			body:           `{"price":`,
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "INVALID_INPUT", body["error"].(map[string]interface{})["code"])
			},
		},
		{
			name:           "negative attributes",
			provider:       comparables.NewStaticProvider(testTable()),
			body:           `{"price":200000,"beds":-1,"baths":-2,"sqft":-1500}`,
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, body map[string]interface{}) {
				errBody := body["error"].(map[string]interface{})
				assert.Equal(t, "INVALID_INPUT", errBody["code"])
				assert.Len(t, errBody["fields"], 3)
			},
		},
		{
			name:           "oversized body",
			provider:       comparables.NewStaticProvider(testTable()),
			body:           `{"address":"` + strings.Repeat("x", 2<<20) + `"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/comparables", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			newRouter(tt.provider).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validate != nil {
				tt.validate(t, decode(t, w))
			}
		})
	}
}

func TestHandleMarketData(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(comparables.NewStaticProvider(testTable())).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/market-data", nil))

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["market_data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["total_properties"])
	assert.InDelta(t, 242500, data["avg_price"], 1e-6)

	w = httptest.NewRecorder()
	newRouter(failingProvider{err: domain.ErrNoDataset}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/market-data", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errBody := decode(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "Market data not available", errBody["message"])
}

func TestHandleLandFeasibility(t *testing.T) {
	body := `{"property":{"address":"Lot 4","price":50000,"sqft":1500,"zip_code":"53202","property_type":"Land"},"development_cost_per_sqft":100}`
	w := httptest.NewRecorder()
	newRouter(comparables.NewStaticProvider(testTable())).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/land/feasibility", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	f := decode(t, w)["feasibility"].(map[string]interface{})
	assert.Equal(t, true, f["available"])
	assert.InDelta(t, 150000, f["development_cost"], 1e-6)

	w = httptest.NewRecorder()
	newRouter(comparables.NewStaticProvider(testTable())).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/land/feasibility",
			strings.NewReader(`{"property":{"price":0}}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["error"].(map[string]interface{})["fields"].([]interface{})
	assert.NotEmpty(t, fields)
}

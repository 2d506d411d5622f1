// Package telemetry exposes Prometheus instruments for the service.
package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the service's Prometheus instruments
type Recorder struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	analyses     *prometheus.CounterVec
	analysisTime prometheus.Histogram
	rentSources  *prometheus.CounterVec
	imports      *prometheus.CounterVec
	importedRows prometheus.Gauge
}

// NewRecorder registers the instruments with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldwise_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yieldwise_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldwise_analyses_total",
				Help: "Total number of completed analyses by verdict",
			},
			[]string{"verdict"},
		),
		analysisTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "yieldwise_analysis_duration_seconds",
				Help:    "Duration of analyses in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
		rentSources: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldwise_rent_estimates_total",
				Help: "Rent figures used by analyses, by source",
			},
			[]string{"source"},
		),
		imports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yieldwise_comparables_imports_total",
				Help: "Comparables dataset imports by outcome",
			},
			[]string{"outcome"},
		),
		importedRows: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "yieldwise_comparables_rows",
				Help: "Rows in the most recently imported comparables dataset",
			},
		),
	}
}

// ObserveHTTP records one served request
func (r *Recorder) ObserveHTTP(method, route string, status int, d time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveAnalysis records one completed analysis
func (r *Recorder) ObserveAnalysis(verdict, rentSource string, d time.Duration) {
	r.analyses.WithLabelValues(verdict).Inc()
	r.rentSources.WithLabelValues(rentSource).Inc()
	r.analysisTime.Observe(d.Seconds())
}

// ObserveImport records a comparables import; rows is ignored on failure
func (r *Recorder) ObserveImport(err error, rows int) {
	if err != nil {
		r.imports.WithLabelValues("failure").Inc()
		return
	}
	r.imports.WithLabelValues("success").Inc()
	r.importedRows.Set(float64(rows))
}

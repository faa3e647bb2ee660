// Package metrics exposes Prometheus collectors for the aggregator service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JakeFAU/events-aggregator/internal/event"
)

var (
	ingestEventsTotal          *prometheus.CounterVec
	ingestSourceFailuresTotal  *prometheus.CounterVec
	ingestFragmentFailures     *prometheus.CounterVec
	ingestRunsTotal            prometheus.Counter
	ingestRunDurationSeconds   prometheus.Histogram
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		ingestEventsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aggregator_events_total",
				Help: "Total events processed per source, labeled by upsert outcome.",
			},
			[]string{"source", "outcome"},
		)

		ingestSourceFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aggregator_source_failures_total",
				Help: "Total adapter fetches that failed entirely, labeled by source.",
			},
			[]string{"source"},
		)

		ingestFragmentFailures = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aggregator_fragment_failures_total",
				Help: "Total failed pages/URLs/cities within partially successful fetches.",
			},
			[]string{"source"},
		)

		ingestRunsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aggregator_ingestion_runs_total",
				Help: "Total ingestion runs executed.",
			},
		)

		ingestRunDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "aggregator_ingestion_run_duration_seconds",
				Help:    "Histogram of full ingestion run latencies.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveOutcome increments the per-source event counters.
func ObserveOutcome(source string, inserted, merged, skipped, dropped int) {
	if inserted > 0 {
		ingestEventsTotal.WithLabelValues(source, "inserted").Add(float64(inserted))
	}
	if merged > 0 {
		ingestEventsTotal.WithLabelValues(source, "merged").Add(float64(merged))
	}
	if skipped > 0 {
		ingestEventsTotal.WithLabelValues(source, "skipped").Add(float64(skipped))
	}
	if dropped > 0 {
		ingestEventsTotal.WithLabelValues(source, "dropped").Add(float64(dropped))
	}
}

// ObserveSourceFailure increments the total-failure counter for a source.
func ObserveSourceFailure(source string) {
	ingestSourceFailuresTotal.WithLabelValues(source).Inc()
}

// ObserveFragmentFailures adds partial-failure counts for a source.
func ObserveFragmentFailures(source string, count int) {
	if count > 0 {
		ingestFragmentFailures.WithLabelValues(source).Add(float64(count))
	}
}

// ObserveRun records one completed ingestion run.
func ObserveRun(report event.IngestionReport) {
	ingestRunsTotal.Inc()
	ingestRunDurationSeconds.Observe(report.Duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

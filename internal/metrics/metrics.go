// Package metrics exposes Prometheus collectors for the ingestion and
// scoring pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the pipeline collectors. Register one instance per
// process and inject it where needed; no package-level state.
type Metrics struct {
	FetchAttempts      *prometheus.CounterVec
	ExtractionOutcomes *prometheus.CounterVec
	BriefingRequests   *prometheus.CounterVec
	CrawlDuration      prometheus.Histogram
}

// New registers the collectors against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "econcycle_fetch_attempts_total",
			Help: "Fetch attempts by host and outcome.",
		}, []string{"host", "outcome"}),
		ExtractionOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "econcycle_extractions_total",
			Help: "Adapter extraction outcomes by indicator.",
		}, []string{"indicator", "outcome"}),
		BriefingRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "econcycle_briefing_requests_total",
			Help: "Briefing generations by cache outcome.",
		}, []string{"outcome"}),
		CrawlDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "econcycle_crawl_duration_seconds",
			Help:    "Wall-clock duration of full crawl batches.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}
}

// ObserveExtraction records one per-indicator crawl outcome.
func (m *Metrics) ObserveExtraction(indicator string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ExtractionOutcomes.WithLabelValues(indicator, outcome).Inc()
}

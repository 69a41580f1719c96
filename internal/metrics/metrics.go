// Package metrics holds the Prometheus collectors for the scrape pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Scrape outcomes used as the "outcome" label.
const (
	OutcomeCacheHit = "cache_hit"
	OutcomeSuccess  = "success"
	OutcomeFailed   = "failed"
)

var (
	// Registry must not see the same collector twice, so Init is guarded.
	once sync.Once

	// ScrapeTotal counts Scrape calls by platform and outcome.
	ScrapeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkscope_scrape_total",
			Help: "Number of scrape requests by platform and outcome.",
		},
		[]string{"platform", "outcome"},
	)

	// FallbackTotal counts extractions that degraded to URL-only parsing.
	FallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkscope_extract_fallback_total",
			Help: "Number of extractions that fell back to URL pattern parsing.",
		},
		[]string{"platform"},
	)

	// ScrapeDurationSeconds observes uncached scrapes only.
	ScrapeDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkscope_scrape_duration_seconds",
			Help:    "Latency of scrapes that required a browser session.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"platform"},
	)

	// SessionsInflight is the number of live browser sessions.
	SessionsInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "linkscope_sessions_inflight",
			Help: "Current number of open browser sessions.",
		},
	)
)

// Init registers the collectors with the default registry. Safe to call
// more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			ScrapeTotal,
			FallbackTotal,
			ScrapeDurationSeconds,
			SessionsInflight,
		)
	})
}

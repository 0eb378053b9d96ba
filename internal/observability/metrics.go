// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Investigation metrics
	InvestigationsTotal   *prometheus.CounterVec // lane, outcome
	InvestigationDuration *prometheus.HistogramVec
	FastPathHits          prometheus.Counter

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Collector metrics
	CollectorDegraded  *prometheus.CounterVec // collector
	OutboundLatency    *prometheus.HistogramVec
	ScreenshotCaptures *prometheus.CounterVec // provider, status

	// Registry metrics
	OffendersFlagged prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "veritas"
	}

	return &Metrics{
		InvestigationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "investigator",
			Name:      "investigations_total",
			Help:      "Total investigations by lane and outcome",
		}, []string{"lane", "outcome"}),
		InvestigationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "investigator",
			Name:      "investigation_duration_seconds",
			Help:      "End-to-end investigation duration in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"lane"}),
		FastPathHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "investigator",
			Name:      "fastpath_hits_total",
			Help:      "Investigations short-circuited by the offender registry",
		}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Result cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Result cache misses",
		}),

		CollectorDegraded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "evidence",
			Name:      "collector_degraded_total",
			Help:      "Collector runs that substituted a null result",
		}, []string{"collector"}),
		OutboundLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "evidence",
			Name:      "outbound_latency_seconds",
			Help:      "Outbound call latency in seconds by upstream service",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),
		ScreenshotCaptures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "evidence",
			Name:      "screenshot_captures_total",
			Help:      "Screenshot capture attempts by provider and status",
		}, []string{"provider", "status"}),

		OffendersFlagged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "offenders_flagged_total",
			Help:      "Creator addresses written to the offender registry",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

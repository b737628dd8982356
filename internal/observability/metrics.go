package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the alert
// lookup service.
type Metrics struct {
	// Lookup pipeline metrics.
	LocationLookups *prometheus.CounterVec // labels: outcome={alert,none,not_found,error}
	SameCodeLookups *prometheus.CounterVec // labels: outcome={alert,none,error}
	LookupDuration  prometheus.Histogram

	// NWS API metrics.
	NWSRequests        *prometheus.CounterVec   // labels: endpoint, outcome={success,error}
	NWSRequestDuration *prometheus.HistogramVec // labels: endpoint
	AlertsDiscarded    prometheus.Counter
	CascadeDepth       prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,not_found,error}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		LocationLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherbox",
			Name:      "location_lookups_total",
			Help:      "Location alert lookups by outcome.",
		}, []string{"outcome"}),
		SameCodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherbox",
			Name:      "same_code_lookups_total",
			Help:      "SAME code alert lookups by outcome.",
		}, []string{"outcome"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weatherbox",
			Name:      "lookup_duration_seconds",
			Help:      "End-to-end duration of a location alert lookup.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NWSRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherbox",
			Name:      "nws_requests_total",
			Help:      "NWS API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		NWSRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weatherbox",
			Name:      "nws_request_duration_seconds",
			Help:      "NWS API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		AlertsDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weatherbox",
			Name:      "alerts_discarded_total",
			Help:      "Feed entries rejected during normalization.",
		}),
		CascadeDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weatherbox",
			Name:      "same_cascade_depth",
			Help:      "Endpoint attempts consumed per SAME code lookup.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherbox",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherbox",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.LocationLookups,
		m.SameCodeLookups,
		m.LookupDuration,
		m.NWSRequests,
		m.NWSRequestDuration,
		m.AlertsDiscarded,
		m.CascadeDepth,
		m.GeocodeRequests,
		m.GeocodeCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		LocationLookups:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weatherbox", Name: "location_lookups_total"}, []string{"outcome"}),
		SameCodeLookups:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weatherbox", Name: "same_code_lookups_total"}, []string{"outcome"}),
		LookupDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weatherbox", Name: "lookup_duration_seconds"}),
		NWSRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weatherbox", Name: "nws_requests_total"}, []string{"endpoint", "outcome"}),
		NWSRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "weatherbox", Name: "nws_request_duration_seconds"}, []string{"endpoint"}),
		AlertsDiscarded:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weatherbox", Name: "alerts_discarded_total"}),
		CascadeDepth:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weatherbox", Name: "same_cascade_depth"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weatherbox", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weatherbox", Name: "geocode_cache_total"}, []string{"result"}),
	}
}

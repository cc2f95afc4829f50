package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcripts_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transcripts_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "transcripts_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Lookup Metrics
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcripts_lookups_total",
			Help: "Total number of transcript lookups by outcome",
		},
		[]string{"outcome"},
	)

	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transcripts_lookup_duration_seconds",
			Help:    "Transcript lookup duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"outcome"},
	)

	SegmentsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transcripts_segments_returned",
			Help:    "Number of segments returned per successful lookup",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
	)

	// Selection Metrics
	TracksSelectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcripts_tracks_selected_total",
			Help: "Total number of selected caption tracks",
		},
		[]string{"origin", "rule"},
	)

	SegmentsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transcripts_segments_dropped_total",
			Help: "Total number of segments dropped for empty text",
		},
	)

	// Provider Metrics
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcripts_provider_requests_total",
			Help: "Total number of caption provider calls",
		},
		[]string{"provider", "operation", "status"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transcripts_provider_request_duration_seconds",
			Help:    "Caption provider call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"provider", "operation"},
	)

	// Stats Metrics
	StatsOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcripts_stats_operations_total",
			Help: "Total number of stats store operations",
		},
		[]string{"operation", "status"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcripts_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordLookup records the classified outcome of a transcript lookup
func RecordLookup(outcome string, duration float64, segments int) {
	LookupsTotal.WithLabelValues(outcome).Inc()
	LookupDuration.WithLabelValues(outcome).Observe(duration)
	if outcome == "ok" {
		SegmentsReturned.Observe(float64(segments))
	}
}

// RecordTrackSelected records which selection rule picked a track
func RecordTrackSelected(origin, rule string) {
	TracksSelectedTotal.WithLabelValues(origin, rule).Inc()
}

// RecordSegmentsDropped records segments removed during normalization
func RecordSegmentsDropped(n int) {
	if n > 0 {
		SegmentsDroppedTotal.Add(float64(n))
	}
}

// RecordProviderRequest records a caption provider call
func RecordProviderRequest(provider, operation, status string, duration float64) {
	ProviderRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider, operation).Observe(duration)
}

// RecordStatsOperation records a stats store operation
func RecordStatsOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StatsOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

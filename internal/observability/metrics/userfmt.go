package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UserFmtRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "userfmt_requests_total",
			Help: "Total number of userfmt requests",
		},
		[]string{"method", "path"},
	)

	UserFmtRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "userfmt_requests_in_flight",
			Help: "Number of userfmt requests currently being processed",
		},
	)

	UserFmtRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "userfmt_request_duration_seconds",
			Help:    "Duration of userfmt requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	UsersFormattedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "users_formatted_total",
			Help: "Total number of user records formatted",
		},
		[]string{"history"},
	)

	FormatErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "format_errors_total",
			Help: "Total number of failed format calls by error code",
		},
		[]string{"code"},
	)

	FormatBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "format_batch_size",
			Help:    "Number of records per batch format call",
			Buckets: []float64{1, 5, 10, 50, 100, 250, 500, 1000},
		},
	)

	HistoryLookupDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "history_lookup_duration_seconds",
			Help:    "Duration of history lookups in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"source", "status"},
	)
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook request metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nrfcloud_webhook_requests_total",
			Help: "Total number of webhook requests received",
		},
		[]string{"method", "status"},
	)

	RequestBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nrfcloud_webhook_request_bytes_total",
			Help: "Total bytes of webhook payload data received",
		},
	)

	// Per-message metrics
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nrfcloud_webhook_messages_total",
			Help: "Total number of messages processed",
		},
		[]string{"status"},
	)

	NormalizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nrfcloud_webhook_normalization_duration_seconds",
			Help:    "Duration of message normalization in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Document store metrics
	StorageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nrfcloud_webhook_storage_duration_seconds",
			Help:    "Duration of document create operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StorageErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nrfcloud_webhook_storage_errors_total",
			Help: "Total number of document create failures",
		},
	)

	// Security metrics
	SignatureFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nrfcloud_webhook_signature_failures_total",
			Help: "Total number of rejected webhook signatures",
		},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nrfcloud_webhook_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"key"},
	)
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpay_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinpay_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WebhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpay_webhooks_total",
			Help: "Total number of webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	SignatureMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpay_signature_matches_total",
			Help: "Signature verifications by matched body encoding",
		},
		[]string{"encoding"},
	)

	ReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpay_reconciliations_total",
			Help: "Order reconciliations by result",
		},
		[]string{"result"},
	)

	LockAcquisitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpay_lock_acquisitions_total",
			Help: "Amount lock acquisition attempts by result",
		},
		[]string{"result"},
	)

	ReferralCreditsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coinpay_referral_credits_total",
			Help: "Total number of referral reward credits applied",
		},
	)

	NotifyJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpay_notify_jobs_total",
			Help: "Fulfillment notification jobs by status",
		},
		[]string{"status"},
	)

	NotifyQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coinpay_notify_queue_length",
			Help: "Current length of the fulfillment notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordWebhook(outcome string) {
	WebhooksTotal.WithLabelValues(outcome).Inc()
}

func RecordSignatureMatch(encoding string) {
	SignatureMatchesTotal.WithLabelValues(encoding).Inc()
}

func RecordReconciliation(result string) {
	ReconciliationsTotal.WithLabelValues(result).Inc()
}

func RecordLockAcquisition(result string) {
	LockAcquisitionsTotal.WithLabelValues(result).Inc()
}

func RecordNotifyJob(status string) {
	NotifyJobsTotal.WithLabelValues(status).Inc()
}

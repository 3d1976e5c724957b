package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the membify service
type Metrics struct {
	// Webhook metrics
	WebhookEventsTotal    *prometheus.CounterVec
	WebhookDuplicates     prometheus.Counter
	WebhookUnhandled      prometheus.Counter
	WebhookHandleDuration prometheus.Histogram

	// Subscription metrics
	StatusEvaluationsTotal *prometheus.CounterVec
	MembersExpiredTotal    prometheus.Counter
	ExpirySweepDuration    prometheus.Histogram

	// Broadcast metrics
	BroadcastsTotal         prometheus.Counter
	BroadcastRecipientsSent prometheus.Counter
	BroadcastSendErrors     prometheus.Counter

	// Payment metrics
	PaymentsCreatedTotal   *prometheus.CounterVec
	PaymentsCompletedTotal prometheus.Counter
	ProviderErrors         *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics creates a new Metrics instance with all counters and gauges
func NewMetrics() *Metrics {
	return &Metrics{
		WebhookEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membify_webhook_events_total",
				Help: "Total number of webhook events dispatched, by route",
			},
			[]string{"route"},
		),
		WebhookDuplicates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membify_webhook_duplicates_total",
			Help: "Total number of webhook redeliveries suppressed by dedup",
		}),
		WebhookUnhandled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membify_webhook_unhandled_total",
			Help: "Total number of webhook events with no matching route",
		}),
		WebhookHandleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "membify_webhook_handle_duration_seconds",
			Help:    "Duration of webhook event handling in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		StatusEvaluationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membify_status_evaluations_total",
				Help: "Total number of member status evaluations, by result",
			},
			[]string{"status"},
		),
		MembersExpiredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membify_members_expired_total",
			Help: "Total number of members transitioned to expired",
		}),
		ExpirySweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "membify_expiry_sweep_duration_seconds",
			Help:    "Duration of expiry sweep cycles in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		BroadcastsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membify_broadcasts_total",
			Help: "Total number of broadcasts dispatched",
		}),
		BroadcastRecipientsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membify_broadcast_recipients_sent_total",
			Help: "Total number of broadcast messages delivered",
		}),
		BroadcastSendErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membify_broadcast_send_errors_total",
			Help: "Total number of failed broadcast deliveries",
		}),

		PaymentsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membify_payments_created_total",
				Help: "Total number of payment intents created, by provider",
			},
			[]string{"provider"},
		),
		PaymentsCompletedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membify_payments_completed_total",
			Help: "Total number of payments completed",
		}),
		ProviderErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membify_provider_errors_total",
				Help: "Total number of payment provider call failures, by provider",
			},
			[]string{"provider"},
		),
	}
}

package services

import (
	"time"

	"finance-ledger/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

type PrometheusMetrics struct {
	ledgerOperations          *prometheus.CounterVec
	ledgerOperationDuration   *prometheus.HistogramVec
	postedAmount              *prometheus.HistogramVec
	authenticationEventsTotal *prometheus.CounterVec
}

// NewPrometheusMetrics registers the ledger collectors with reg.
// Pass prometheus.DefaultRegisterer to expose them on /metrics.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		ledgerOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Total number of ledger operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		ledgerOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_milliseconds",
				Help:    "Ledger operation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"operation"},
		),
		postedAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_posted_amount",
				Help:    "Posted transaction amounts",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
			[]string{"kind"},
		),
		authenticationEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type", "outcome"},
		),
	}
}

func (m *PrometheusMetrics) RecordPosting(operation, outcome string, duration time.Duration) {
	m.ledgerOperations.WithLabelValues(operation, outcome).Inc()
	m.ledgerOperationDuration.WithLabelValues(operation).Observe(float64(duration.Milliseconds()))
}

func (m *PrometheusMetrics) RecordPostedAmount(kind models.Kind, amount decimal.Decimal) {
	m.postedAmount.WithLabelValues(kind.String()).Observe(amount.InexactFloat64())
}

func (m *PrometheusMetrics) RecordAuthenticationEvent(event, outcome string) {
	m.authenticationEventsTotal.WithLabelValues(event, outcome).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records settlement and payout activity.
type PaymentMetrics struct {
	purchasesRecorded *prometheus.CounterVec
	withdrawals       *prometheus.CounterVec
	gatewayDuration   *prometheus.HistogramVec
	gatewayFailures   *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	purchases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchases_recorded_total",
		Help: "Purchases committed to the ledger after gateway verification.",
	}, []string{"status"})
	withdrawals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "withdrawals_total",
		Help: "Withdrawals recorded after an accepted transfer.",
	}, []string{"status"})
	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paystack_request_duration_seconds",
		Help:    "Duration of Paystack API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	gatewayFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "paystack_request_failures_total",
		Help: "Paystack API calls that returned an error.",
	}, []string{"operation"})
	reg.MustRegister(purchases, withdrawals, gatewayDuration, gatewayFailures)
	return &PaymentMetrics{
		purchasesRecorded: purchases,
		withdrawals:       withdrawals,
		gatewayDuration:   gatewayDuration,
		gatewayFailures:   gatewayFailures,
	}
}

// IncPurchaseRecorded counts one committed purchase by gateway status.
func (p *PaymentMetrics) IncPurchaseRecorded(status string) {
	if p == nil || p.purchasesRecorded == nil {
		return
	}
	p.purchasesRecorded.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncWithdrawal counts one recorded withdrawal by gateway status.
func (p *PaymentMetrics) IncWithdrawal(status string) {
	if p == nil || p.withdrawals == nil {
		return
	}
	p.withdrawals.WithLabelValues(normalizeLabel(status)).Inc()
}

// ObserveGatewayDuration records the duration of a gateway call.
func (p *PaymentMetrics) ObserveGatewayDuration(operation string, duration time.Duration) {
	if p == nil || p.gatewayDuration == nil {
		return
	}
	p.gatewayDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncGatewayFailure counts one failed gateway call.
func (p *PaymentMetrics) IncGatewayFailure(operation string) {
	if p == nil || p.gatewayFailures == nil {
		return
	}
	p.gatewayFailures.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

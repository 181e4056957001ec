package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// CheckoutMetrics counts checkout attempts by outcome and tracks the
// value of settled orders.
type CheckoutMetrics struct {
	attempts   *prometheus.CounterVec
	orderValue prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout collectors on reg, or on the
// default registerer when reg is nil.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &CheckoutMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retail",
			Subsystem: "checkout",
			Name:      "attempts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome", "reason"}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "retail",
			Subsystem: "checkout",
			Name:      "order_value",
			Help:      "Grand total of settled checkouts, in currency units.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	reg.MustRegister(m.attempts, m.orderValue)
	return m
}

func (m *CheckoutMetrics) Settled(total decimal.Decimal) {
	m.attempts.WithLabelValues("settled", "").Inc()
	v, _ := total.Float64()
	m.orderValue.Observe(v)
}

func (m *CheckoutMetrics) Rejected(reason string) {
	m.attempts.WithLabelValues("rejected", reason).Inc()
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

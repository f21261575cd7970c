package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout and stock reservation outcomes.
type CheckoutMetrics struct {
	attempts    *prometheus.CounterVec
	failures    *prometheus.CounterVec
	reservation *prometheus.HistogramVec
	orderTotal  prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by path.",
	}, []string{"path"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkout failures by path and reason.",
	}, []string{"path", "reason"})
	reservation := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stock_reservation_seconds",
		Help:    "Duration of stock reservation transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_amount",
		Help:    "Distribution of placed order totals.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
	})
	reg.MustRegister(attempts, failures, reservation, orderTotal)
	return &CheckoutMetrics{
		attempts:    attempts,
		failures:    failures,
		reservation: reservation,
		orderTotal:  orderTotal,
	}
}

// IncAttempt increments the attempt counter for the named checkout path.
func (c *CheckoutMetrics) IncAttempt(path string) {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.WithLabelValues(normalizeLabel(path)).Inc()
}

// IncFailure increments the failure counter for the given path and reason.
func (c *CheckoutMetrics) IncFailure(path, reason string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(path), normalizeLabel(reason)).Inc()
}

// ObserveReservation records how long the reservation transaction took.
func (c *CheckoutMetrics) ObserveReservation(path string, duration time.Duration) {
	if c == nil || c.reservation == nil {
		return
	}
	c.reservation.WithLabelValues(normalizeLabel(path)).Observe(duration.Seconds())
}

// ObserveOrderTotal records the monetary total of a placed order.
func (c *CheckoutMetrics) ObserveOrderTotal(amount float64) {
	if c == nil || c.orderTotal == nil {
		return
	}
	c.orderTotal.Observe(amount)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeCommitted      = "committed"
	OutcomeEmptyCart      = "empty_cart"
	OutcomeRolledBack     = "rolled_back"
	OutcomePartialFailure = "partial_failure"
)

type CheckoutMetrics struct {
	Checkouts   *prometheus.CounterVec
	Transitions *prometheus.CounterVec
}

// New registers the marketplace counters on the given registerer. main passes
// prometheus.DefaultRegisterer; tests pass a fresh registry.
func New(reg prometheus.Registerer) *CheckoutMetrics {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Subsystem: "checkout",
		Name:      "attempts_total",
		Help:      "Checkout attempts by terminal outcome.",
	}, []string{"outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Subsystem: "orders",
		Name:      "status_transitions_total",
		Help:      "Administrative order status transitions.",
	}, []string{"to"})

	reg.MustRegister(checkouts, transitions)
	return &CheckoutMetrics{Checkouts: checkouts, Transitions: transitions}
}

// ObserveCheckout is nil-safe so the converter can run without metrics wired.
func (m *CheckoutMetrics) ObserveCheckout(outcome string) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(outcome).Inc()
}

func (m *CheckoutMetrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}

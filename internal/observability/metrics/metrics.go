// Package metrics exposes prometheus instrumentation for the storefront
// domain and the HTTP layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts domain events. A nil *Metrics is safe to skip on call
// sites; services take it as an optional dependency.
type Metrics struct {
	ordersCreated       *prometheus.CounterVec
	paymentsRecorded    *prometheus.CounterVec
	transitionsDenied   *prometheus.CounterVec
	downPaymentsExpired prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ordersCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tailorline_orders_created_total",
			Help: "Orders placed, labeled by payment scheme.",
		}, []string{"scheme"}),
		paymentsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tailorline_payments_recorded_total",
			Help: "Payment tranches settled, labeled by kind and method.",
		}, []string{"kind", "method"}),
		transitionsDenied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tailorline_transitions_denied_total",
			Help: "Rejected fulfillment transitions, labeled by target status.",
		}, []string{"to_status"}),
		downPaymentsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "tailorline_down_payments_expired_total",
			Help: "Down payments expired by the sweep job.",
		}),
	}
}

func (m *Metrics) OrderCreated(scheme string) {
	m.ordersCreated.WithLabelValues(scheme).Inc()
}

func (m *Metrics) RecordPayment(kind, method string) {
	m.paymentsRecorded.WithLabelValues(kind, method).Inc()
}

func (m *Metrics) TransitionDenied(toStatus string) {
	m.transitionsDenied.WithLabelValues(toStatus).Inc()
}

func (m *Metrics) DownPaymentsExpired(count int) {
	m.downPaymentsExpired.Add(float64(count))
}

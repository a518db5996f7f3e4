package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	BookingsCreated      *prometheus.CounterVec
	Assignments          *prometheus.CounterVec
	StatusTransitions    *prometheus.CounterVec
	TransitionsRejected  *prometheus.CounterVec
	BarberClaimConflicts prometheus.Counter
	HTTPRequestDuration  *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		BookingsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "created_total",
			Help:      "Appointments booked, by how the shop was chosen.",
		}, []string{"shop_selection"}),
		Assignments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "barbers",
			Name:      "assignments_total",
			Help:      "Barber assignments, by allocation strategy.",
		}, []string{"strategy"}),
		StatusTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "status_transitions_total",
			Help:      "Applied status transitions, by target status.",
		}, []string{"to"}),
		TransitionsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "status_transitions_rejected_total",
			Help:      "Refused status transitions, by error code.",
		}, []string{"code"}),
		BarberClaimConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "barbers",
			Name:      "claim_conflicts_total",
			Help:      "Immediate claims lost to a concurrent assignment.",
		}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) BookingCreated(selection string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(selection).Inc()
}

func (m *Metrics) BarberAssigned(strategy string) {
	if m == nil {
		return
	}
	m.Assignments.WithLabelValues(strategy).Inc()
}

func (m *Metrics) StatusChanged(to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(to).Inc()
}

func (m *Metrics) StatusRejected(code string) {
	if m == nil {
		return
	}
	m.TransitionsRejected.WithLabelValues(code).Inc()
}

func (m *Metrics) ClaimConflict() {
	if m == nil {
		return
	}
	m.BarberClaimConflicts.Inc()
}

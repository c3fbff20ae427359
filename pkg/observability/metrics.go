package observability

import (
	"context"
	"time"

	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the platform collectors.
type Metrics struct {
	StateVisits  *prometheus.CounterVec
	Transitions  *prometheus.CounterVec
	Violations   *prometheus.CounterVec
	OperationDur *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg skips
// registration.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		StateVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "silverconnect_state_visits_total",
			Help: "Number of times a state handled input.",
		}, []string{"engine", "state"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "silverconnect_transitions_total",
			Help: "Transitions applied, by outcome.",
		}, []string{"engine", "outcome"}),
		Violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "silverconnect_rule_violations_total",
			Help: "Business rule violations, by rule code.",
		}, []string{"engine", "rule"}),
		OperationDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "silverconnect_operation_duration_seconds",
			Help:    "Duration of platform operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "success"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.StateVisits, m.Transitions, m.Violations, m.OperationDur} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, e *domain.StateEvent) {
			m.StateVisits.WithLabelValues(e.Engine, string(e.State)).Inc()
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.Engine, e.Outcome.String()).Inc()
			if e.Rule != "" {
				m.Violations.WithLabelValues(e.Engine, e.Rule).Inc()
			}
		},
	}
}

// ObserveOperation records the duration of a platform operation.
func (m *Metrics) ObserveOperation(operation string, success bool, d time.Duration) {
	label := "false"
	if success {
		label = "true"
	}
	m.OperationDur.WithLabelValues(operation, label).Observe(d.Seconds())
}

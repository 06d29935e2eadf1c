package observability

import (
	"context"

	"github.com/aretw0/workshop/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	Drops          *prometheus.CounterVec
	Rejections     *prometheus.CounterVec
	Reverts        *prometheus.CounterVec
	Checks         *prometheus.CounterVec
	Resets         *prometheus.CounterVec
	SessionsActive prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Drops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshop_drops_total",
				Help: "Accepted drops by exercise and outcome",
			},
			[]string{"exercise", "outcome"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshop_drop_rejections_total",
				Help: "Rejected drops by exercise and reason",
			},
			[]string{"exercise", "reason"},
		),
		Reverts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshop_reverts_total",
				Help: "Incorrect placements returned to the bank",
			},
			[]string{"exercise"},
		),
		Checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshop_checks_total",
				Help: "Sequence checks by exercise and outcome",
			},
			[]string{"exercise", "outcome"},
		),
		Resets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshop_resets_total",
				Help: "Session initializations by exercise and reason",
			},
			[]string{"exercise", "reason"},
		),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workshop_sessions_active",
			Help: "Sessions currently open",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Drops, m.Rejections, m.Reverts, m.Checks, m.Resets, m.SessionsActive)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDrop: func(_ context.Context, e *domain.DropEvent) {
			if !e.Accepted {
				m.Rejections.WithLabelValues(e.ExerciseID, string(e.Rejection)).Inc()
				return
			}
			outcome := string(e.Outcome)
			if outcome == "" {
				outcome = "moved"
			}
			m.Drops.WithLabelValues(e.ExerciseID, outcome).Inc()
		},
		OnRevert: func(_ context.Context, e *domain.RevertEvent) {
			m.Reverts.WithLabelValues(e.ExerciseID).Inc()
		},
		OnCheck: func(_ context.Context, e *domain.CheckEvent) {
			m.Checks.WithLabelValues(e.ExerciseID, string(e.Outcome)).Inc()
		},
		OnReset: func(_ context.Context, e *domain.ResetEvent) {
			m.Resets.WithLabelValues(e.ExerciseID, string(e.Reason)).Inc()
		},
	}
}

// SessionOpened increments the active sessions gauge.
func (m *Metrics) SessionOpened(exerciseID string) {
	m.SessionsActive.Inc()
}

// SessionClosed decrements the active sessions gauge.
func (m *Metrics) SessionClosed(exerciseID string) {
	m.SessionsActive.Dec()
}

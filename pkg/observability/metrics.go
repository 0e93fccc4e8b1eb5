package observability

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
)

// Step outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeStopped = "stopped"
)

// Metrics holds the Prometheus collectors fed by envelope hooks.
type Metrics struct {
	Steps    *prometheus.CounterVec
	Retries  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fluent_steps_total",
				Help: "Chain steps by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		Retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fluent_retries_total",
				Help: "Retries of transient failures by method",
			},
			[]string{"method"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fluent_step_duration_seconds",
				Help:    "Time spent in a chain step, retries included",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"method"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.Steps, m.Retries, m.Duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Hooks records every step event.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnRetry: func(_ context.Context, e *domain.StepEvent) {
			m.Retries.WithLabelValues(e.Method).Inc()
		},
		OnSuccess: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Method, OutcomeSuccess).Inc()
			m.Duration.WithLabelValues(e.Method).Observe(e.Elapsed.Seconds())
		},
		OnStopped: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Method, OutcomeStopped).Inc()
			m.Duration.WithLabelValues(e.Method).Observe(e.Elapsed.Seconds())
		},
	}
}

// LogHooks logs successful steps at Debug and stopped steps at Info.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnSuccess: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_done", "description", e.Description, "attempt", e.Attempt, "elapsed", e.Elapsed)
		},
		OnStopped: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step_stopped", "description", e.Description, "retries", e.Retries, "error", e.Err)
		},
	}
}

package observability

import (
	"context"
	"errors"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeInterrupted = "interrupted"
	OutcomeInvariant   = "invariant"
	OutcomeError       = "error"
)

// Metrics holds the builder collectors.
type Metrics struct {
	Builds   *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Marked   *prometheus.HistogramVec
	Finals   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfinder_builds_total",
			Help: "Path system and slice builds by outcome.",
		}, []string{"kind", "automaton", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wayfinder_build_duration_seconds",
			Help:    "Wall time of builds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"kind"}),
		Marked: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wayfinder_build_marked_pairs",
			Help:    "(node, state) pairs reached per build.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}, []string{"kind"}),
		Finals: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wayfinder_build_final_pairs",
			Help:    "(node, state) pairs reached in a final state per build.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}, []string{"kind"}),
	}
	for _, c := range []prometheus.Collector{m.Builds, m.Duration, m.Marked, m.Finals} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Outcome classifies a build error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case domain.IsInterruption(err):
		return OutcomeInterrupted
	case errors.Is(err, domain.ErrInvariant):
		return OutcomeInvariant
	default:
		return OutcomeError
	}
}

// Hooks observes finished builds. Individual marks are not counted.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBuildFinish: func(_ context.Context, ev *domain.BuildEvent) {
			kind := string(ev.Kind)
			m.Builds.WithLabelValues(kind, ev.Automaton, Outcome(ev.Err)).Inc()
			m.Duration.WithLabelValues(kind).Observe(ev.Duration.Seconds())
			if ev.Err == nil {
				m.Marked.WithLabelValues(kind).Observe(float64(ev.Marked))
				m.Finals.WithLabelValues(kind).Observe(float64(ev.Finals))
			}
		},
	}
}

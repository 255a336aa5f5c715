package observability

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/frost/pkg/domain"
)

// Metrics records freeze, thaw and flush outcomes.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	nodes    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg falls back to prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frost",
			Name:      "operations_total",
			Help:      "Persistence operations by type and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "frost",
			Name:      "operation_duration_seconds",
			Help:      "Latency of persistence operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frost",
			Name:      "nodes_total",
			Help:      "Stateful nodes written by freeze or restored by thaw.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.calls, m.duration, m.nodes)
	return m
}

// Observe records a single event.
func (m *Metrics) Observe(_ context.Context, e *domain.PersistEvent) {
	op := string(e.Type)
	result := "ok"
	if e.Err != nil {
		result = "error"
	}
	m.calls.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(e.Duration.Seconds())
	if e.Err == nil && e.Nodes > 0 {
		m.nodes.WithLabelValues(op).Add(float64(e.Nodes))
	}
}

// Hooks returns lifecycle hooks feeding these metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFreeze: m.Observe,
		OnThaw:   m.Observe,
		OnFlush:  m.Observe,
	}
}

// LogHooks returns lifecycle hooks that log every event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	log := func(ctx context.Context, e *domain.PersistEvent) {
		attrs := []any{
			"op", e.Type,
			"branches", e.Branches,
			"nodes", e.Nodes,
			"duration", e.Duration,
		}
		if e.Err != nil {
			logger.WarnContext(ctx, "persistence operation failed", append(attrs, "err", e.Err)...)
			return
		}
		logger.InfoContext(ctx, "persistence operation", attrs...)
	}
	return domain.LifecycleHooks{OnFreeze: log, OnThaw: log, OnFlush: log}
}

// Combine returns hooks that call each of hooks in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	all := func(ctx context.Context, e *domain.PersistEvent) {
		for _, h := range hooks {
			h.Emit(ctx, e)
		}
	}
	return domain.LifecycleHooks{OnFreeze: all, OnThaw: all, OnFlush: all}
}

package meter

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ineyio/modelroute"
)

// PromMeter exports routing decisions as Prometheus metrics.
type PromMeter struct {
	DecisionsTotal       *prometheus.CounterVec
	ContextCriticalTotal *prometheus.CounterVec
	ContextUtilization   *prometheus.HistogramVec
}

var _ modelroute.Meter = (*PromMeter)(nil)

// NewPromMeter registers the routing metrics with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewPromMeter(reg prometheus.Registerer, namespace string) *PromMeter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "modelroute"
	}
	factory := promauto.With(reg)

	return &PromMeter{
		DecisionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "routing",
				Name:      "decisions_total",
				Help:      "Total number of routing decisions",
			},
			[]string{"rule", "model", "changed"},
		),
		ContextCriticalTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "routing",
				Name:      "context_critical_total",
				Help:      "Decisions whose final model is at or above the critical context threshold",
			},
			[]string{"model"},
		),
		ContextUtilization: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "routing",
				Name:      "context_utilization_ratio",
				Help:      "Estimated share of the final model's context window in use",
				Buckets:   []float64{.1, .25, .5, .65, .8, .9, .95, 1, 1.5},
			},
			[]string{"provider"},
		),
	}
}

func (m *PromMeter) OnDecision(e modelroute.DecisionEvent) {
	rule := e.Rule
	if rule == "" {
		rule = "none"
	}
	m.DecisionsTotal.WithLabelValues(rule, e.ModelID, strconv.FormatBool(e.Changed)).Inc()
	m.ContextUtilization.WithLabelValues(e.Provider).Observe(e.Utilization.UtilizationPercent)
	if e.Utilization.IsCritical {
		m.ContextCriticalTotal.WithLabelValues(e.ModelID).Inc()
	}
}

package meter

import (
	"go.uber.org/zap"

	"github.com/ineyio/modelroute"
)

// ZapMeter logs routing decisions using zap.
type ZapMeter struct {
	Logger *zap.Logger
}

var _ modelroute.Meter = (*ZapMeter)(nil)

// NewZapMeter creates a ZapMeter. If logger is nil, zap.L() is used.
func NewZapMeter(logger *zap.Logger) *ZapMeter {
	if logger == nil {
		logger = zap.L()
	}
	return &ZapMeter{Logger: logger}
}

// OnDecision uses the same levels as LogMeter.
func (m *ZapMeter) OnDecision(e modelroute.DecisionEvent) {
	fields := []zap.Field{
		zap.String("decision_id", e.ID),
		zap.String("model", e.ModelID),
		zap.String("original_model", e.OriginalModelID),
		zap.String("provider", e.Provider),
		zap.String("rule", e.Rule),
		zap.Bool("changed", e.Changed),
		zap.Int("estimated_tokens", e.Utilization.EstimatedTokens),
		zap.Int("context_limit", e.Utilization.ContextLimit),
		zap.Float64("utilization", e.Utilization.UtilizationPercent),
	}
	if e.Reason != "" {
		fields = append(fields, zap.String("reason", e.Reason))
	}

	switch {
	case e.Utilization.IsCritical:
		m.Logger.Warn("route_context_critical", fields...)
	case e.Changed:
		m.Logger.Info("route", fields...)
	default:
		m.Logger.Debug("route", fields...)
	}
}

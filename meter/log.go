package meter

import (
	"log/slog"

	"github.com/ineyio/modelroute"
)

// LogMeter logs routing decisions using slog.
type LogMeter struct {
	Logger *slog.Logger
}

var _ modelroute.Meter = (*LogMeter)(nil)

// NewLogMeter creates a LogMeter with the given logger.
// If logger is nil, slog.Default() is used.
func NewLogMeter(logger *slog.Logger) *LogMeter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMeter{Logger: logger}
}

// OnDecision logs critical utilization at Warn, changed decisions at Info and
// everything else at Debug.
func (m *LogMeter) OnDecision(e modelroute.DecisionEvent) {
	attrs := []any{
		"decision_id", e.ID,
		"model", e.ModelID,
		"original_model", e.OriginalModelID,
		"provider", e.Provider,
		"rule", e.Rule,
		"changed", e.Changed,
		"estimated_tokens", e.Utilization.EstimatedTokens,
		"context_limit", e.Utilization.ContextLimit,
		"utilization", e.Utilization.UtilizationPercent,
	}
	if e.Reason != "" {
		attrs = append(attrs, "reason", e.Reason)
	}

	switch {
	case e.Utilization.IsCritical:
		m.Logger.Warn("route_context_critical", attrs...)
	case e.Changed:
		m.Logger.Info("route", attrs...)
	default:
		m.Logger.Debug("route", attrs...)
	}
}

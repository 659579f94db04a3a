package meter

import "github.com/ineyio/modelroute"

// NoopMeter is a meter that does nothing.
type NoopMeter struct{}

var _ modelroute.Meter = (*NoopMeter)(nil)

func (m *NoopMeter) OnDecision(modelroute.DecisionEvent) {}

package modelroute

// Meter observes routing decisions for monitoring/logging.
// Implementations must be safe for concurrent use.
type Meter interface {
	// OnDecision is called once per Route call, after the decision is made.
	OnDecision(event DecisionEvent)
}

// DecisionEvent describes one routing decision.
type DecisionEvent struct {
	ID              string
	ModelID         string
	OriginalModelID string
	Provider        string
	Rule            string
	Changed         bool
	Reason          string
	Utilization     ContextUtilization
}

// noopMeter is a meter that does nothing.
type noopMeter struct{}

func (noopMeter) OnDecision(DecisionEvent) {}

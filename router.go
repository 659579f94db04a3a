package modelroute

import (
	"strings"

	"github.com/google/uuid"
)

// Router decides which model serves each chat turn.
// It holds no mutable state and is safe for concurrent use.
type Router struct {
	cfg       Config
	catalog   *Catalog
	estimator *Estimator
	policy    UpgradePolicy
	meter     Meter
	rules     []rule
}

// Option configures a Router.
type Option func(*Router)

// WithUpgradePolicy sets the policy used to order context upgrade candidates.
func WithUpgradePolicy(p UpgradePolicy) Option {
	return func(r *Router) { r.policy = p }
}

// WithMeter sets the meter.
func WithMeter(m Meter) Option {
	return func(r *Router) { r.meter = m }
}

// WithEstimator replaces the estimator built from Config.Estimator.
func WithEstimator(e *Estimator) Option {
	return func(r *Router) { r.estimator = e }
}

// NewRouter creates a Router over the catalog and rules in cfg.
// The provider-affinity upgrade policy and a no-op meter are used unless
// overridden via options.
func NewRouter(cfg Config, opts ...Option) (*Router, error) {
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog := NewCatalog(cfg.Models, cfg.DefaultContextWindow)

	r := &Router{
		cfg:       cfg,
		catalog:   catalog,
		estimator: NewEstimator(cfg.Estimator),
	}

	for _, opt := range opts {
		opt(r)
	}

	// Apply defaults after options.
	if r.policy == nil {
		r.policy = defaultUpgradePolicy{}
	}
	if r.meter == nil {
		r.meter = noopMeter{}
	}
	if r.estimator == nil {
		r.estimator = NewEstimator(cfg.Estimator)
	}

	buggy := make(map[string]bool, len(cfg.Rules.ReasoningTools.Providers))
	for _, p := range cfg.Rules.ReasoningTools.Providers {
		buggy[strings.ToLower(p)] = true
	}
	fallback, _ := catalog.Lookup(cfg.Rules.ReasoningTools.FallbackModel)
	multimodal, _ := catalog.Lookup(cfg.Rules.MultimodalModel)

	r.rules = []rule{
		overrideRule{},
		mediaRule{target: multimodal},
		reasoningToolsRule{providers: buggy, fallback: fallback},
		overflowRule{router: r},
	}

	return r, nil
}

// Route applies the routing rules to one turn. It never fails: malformed parts
// are skipped and, when no larger model exists for an overflowing conversation,
// the selected model is kept and the decision reports IsCritical.
//
// An empty SelectedModelID means the configured default model is evaluated.
// OriginalModelID still echoes the caller's empty value, so ModelID differs
// from it even when WasChanged is false.
func (r *Router) Route(in RoutingInput) RoutingDecision {
	selected := in.SelectedModelID
	if selected == "" {
		selected = r.cfg.DefaultModel
	}

	t := &turn{
		in:       in,
		selected: selected,
		catalog:  r.catalog,
		est:      r.estimator,
		tokens:   make(map[string]int, 2),
	}

	decision := RoutingDecision{
		ModelID:         selected,
		OriginalModelID: in.SelectedModelID,
	}

	for _, stage := range r.rules {
		if !stage.match(t) {
			continue
		}
		out, ok := stage.apply(t)
		if !ok {
			continue
		}
		decision.ModelID = out.modelID
		decision.WasChanged = out.changed
		decision.Reason = out.reason
		decision.Rule = stage.name()
		break
	}

	decision.ContextUtilization = t.utilization(decision.ModelID)

	r.meter.OnDecision(DecisionEvent{
		ID:              uuid.New().String(),
		ModelID:         decision.ModelID,
		OriginalModelID: decision.OriginalModelID,
		Provider:        r.catalog.Provider(decision.ModelID),
		Rule:            decision.Rule,
		Changed:         decision.WasChanged,
		Reason:          decision.Reason,
		Utilization:     decision.ContextUtilization,
	})

	return decision
}

// SelectLargerContextModel returns the model to upgrade to for a conversation of
// requiredTokens, or false when no catalog model has room for it plus the
// UpgradeSafetyBuffer.
func (r *Router) SelectLargerContextModel(currentModelID string, requiredTokens int) (string, bool) {
	candidates := upgradeCandidates(r.catalog, requiredTokens)
	if len(candidates) == 0 {
		return "", false
	}

	need := NeededCapacity(requiredTokens)
	for _, c := range r.policy.Select(r.catalog.Resolve(currentModelID), candidates) {
		if c.ContextWindow >= need {
			return c.ID, true
		}
	}
	return "", false
}

// Utilization estimates messages against modelID's context window without
// running any rules.
func (r *Router) Utilization(messages []Message, modelID string) ContextUtilization {
	m := r.catalog.Resolve(modelID)
	return r.estimator.CalculateContextUtilization(messages, m.ContextWindow, m.Provider)
}

// Rules returns the rule stage names in priority order.
func (r *Router) Rules() []string {
	names := make([]string, len(r.rules))
	for i, stage := range r.rules {
		names[i] = stage.name()
	}
	return names
}

// DefaultModel returns the model used when a turn has no selected model.
func (r *Router) DefaultModel() string { return r.cfg.DefaultModel }

// Catalog returns the router's model catalog.
func (r *Router) Catalog() *Catalog { return r.catalog }

// Estimator returns the router's token estimator.
func (r *Router) Estimator() *Estimator { return r.estimator }

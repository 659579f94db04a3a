package modelroute

import (
	"fmt"
	"strings"
)

// Rule stage names, in priority order.
const (
	RuleUserOverride    = "user_override"
	RuleMediaAttachment = "media_attachment"
	RuleReasoningTools  = "reasoning_tools"
	RuleContextOverflow = "context_overflow"
)

// rule is one routing stage. The router evaluates stages in order and stops at
// the first one that matches and yields an outcome.
type rule interface {
	name() string
	match(t *turn) bool
	// apply returns false when the stage matched but has no model to offer.
	apply(t *turn) (outcome, bool)
}

type outcome struct {
	modelID string
	reason  string
	changed bool
}

// turn is the per-call evaluation state shared by the stages.
type turn struct {
	in       RoutingInput
	selected string
	catalog  *Catalog
	est      *Estimator
	tokens   map[string]int // estimate by provider ratio
}

func (t *turn) estimate(provider string) int {
	key := strings.ToLower(provider)
	if n, ok := t.tokens[key]; ok {
		return n
	}
	n := t.est.EstimateConversationTokens(t.in.Messages, provider)
	t.tokens[key] = n
	return n
}

func (t *turn) utilization(modelID string) ContextUtilization {
	m := t.catalog.Resolve(modelID)
	return utilization(t.estimate(m.Provider), m.ContextWindow)
}

// overrideRule honors an explicit user choice over everything else,
// including context overflow.
type overrideRule struct{}

func (overrideRule) name() string { return RuleUserOverride }

func (overrideRule) match(t *turn) bool {
	return t.in.UserOverride != ""
}

func (overrideRule) apply(t *turn) (outcome, bool) {
	id := t.in.UserOverride
	out := outcome{modelID: id, changed: id != t.selected}
	if out.changed {
		out.reason = "User selected model"
	}
	return out, true
}

// mediaRule sends audio and video to a model that accepts them natively.
type mediaRule struct {
	target ModelEntry
}

func (mediaRule) name() string { return RuleMediaAttachment }

func (mediaRule) match(t *turn) bool {
	return hasAttachment(t.in.AttachmentTypes, AttachmentAudio) ||
		hasAttachment(t.in.AttachmentTypes, AttachmentVideo)
}

func (r mediaRule) apply(t *turn) (outcome, bool) {
	label, kind := "Video", AttachmentVideo
	if hasAttachment(t.in.AttachmentTypes, AttachmentAudio) {
		label, kind = "Audio", AttachmentAudio
	}
	return outcome{
		modelID: r.target.ID,
		reason: fmt.Sprintf("%s file detected. Switched to %s because %s models accept %s input natively.",
			label, r.target.DisplayName(), r.target.FamilyName(), kind),
		changed: true,
	}, true
}

// reasoningToolsRule works around provider families whose tool calls break
// when reasoning is enabled at the same time.
type reasoningToolsRule struct {
	providers map[string]bool
	fallback  ModelEntry
}

func (reasoningToolsRule) name() string { return RuleReasoningTools }

func (r reasoningToolsRule) match(t *turn) bool {
	if !t.in.ReasoningEnabled || !t.in.ToolsEnabled {
		return false
	}
	return r.providers[strings.ToLower(t.catalog.Provider(t.selected))]
}

func (r reasoningToolsRule) apply(t *turn) (outcome, bool) {
	current := t.catalog.Resolve(t.selected)
	family := current.Family
	if family == "" {
		family = current.Provider
	}
	return outcome{
		modelID: r.fallback.ID,
		reason: fmt.Sprintf("%s models cannot call tools while reasoning is enabled. Switched to %s (%s).",
			family, r.fallback.DisplayName(), r.fallback.ID),
		changed: true,
	}, true
}

// overflowRule upgrades to a larger context window once the conversation
// reaches the critical threshold of the selected model.
type overflowRule struct {
	router *Router
}

func (overflowRule) name() string { return RuleContextOverflow }

func (overflowRule) match(t *turn) bool {
	return t.utilization(t.selected).IsCritical
}

// apply declines when no catalog model is large enough; the caller still sees
// IsCritical in the decision and decides what to do.
func (r overflowRule) apply(t *turn) (outcome, bool) {
	current := t.catalog.Resolve(t.selected)
	usage := t.utilization(t.selected)

	next, ok := r.router.SelectLargerContextModel(t.selected, usage.EstimatedTokens)
	if !ok || next == t.selected {
		return outcome{}, false
	}
	target := t.catalog.Resolve(next)
	return outcome{
		modelID: next,
		reason: fmt.Sprintf("Conversation uses %.0f%% of the %s context window. Switched to %s with a %d token context window.",
			usage.UtilizationPercent*100, current.DisplayName(), target.DisplayName(), target.ContextWindow),
		changed: true,
	}, true
}

package modelroute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTurn(t *testing.T, in RoutingInput) (*Router, *turn) {
	t.Helper()
	r, err := NewRouter(Config{
		DefaultModel: "alpha/small",
		Models: []ModelEntry{
			{ID: "alpha/small", Family: "Alpha", ContextWindow: 100},
			{ID: "alpha/big", ContextWindow: 1000},
			{ID: "beta/any", Name: "Beta Any", ContextWindow: 500},
		},
		Rules: RulesConfig{
			MultimodalModel: "beta/any",
			ReasoningTools:  ReasoningToolsConfig{Providers: []string{"ALPHA"}, FallbackModel: "beta/any"},
		},
	})
	require.NoError(t, err)
	return r, &turn{
		in:       in,
		selected: in.SelectedModelID,
		catalog:  r.catalog,
		est:      r.estimator,
		tokens:   map[string]int{},
	}
}

func TestTurn_EstimateIsMemoized(t *testing.T) {
	_, tr := newTurn(t, RoutingInput{
		SelectedModelID: "alpha/small",
		Messages:        []Message{{Role: RoleUser, Parts: []Part{TextPart{Text: "abcdefgh"}}}},
	})

	assert.Equal(t, 4, tr.estimate("alpha"))
	assert.Equal(t, 4, tr.estimate("ALPHA"))
	assert.Len(t, tr.tokens, 1)

	// Anthropic's ratio gives a different estimate and a separate entry.
	assert.Equal(t, 5, tr.estimate("anthropic"))
	assert.Len(t, tr.tokens, 2)
}

func TestOverrideRule(t *testing.T) {
	_, tr := newTurn(t, RoutingInput{SelectedModelID: "alpha/small", UserOverride: "beta/any"})

	r := overrideRule{}
	require.True(t, r.match(tr))
	out, ok := r.apply(tr)
	require.True(t, ok)
	assert.Equal(t, outcome{modelID: "beta/any", reason: "User selected model", changed: true}, out)

	_, tr = newTurn(t, RoutingInput{SelectedModelID: "alpha/small", UserOverride: " "})
	require.True(t, r.match(tr))
	out, _ = r.apply(tr)
	assert.Equal(t, " ", out.modelID)

	_, tr = newTurn(t, RoutingInput{SelectedModelID: "alpha/small"})
	assert.False(t, r.match(tr))
}

func TestPartValue(t *testing.T) {
	tests := []struct {
		name   string
		part   Part
		want   Part
		wantOK bool
	}{
		{"nil", nil, nil, false},
		{"typed nil text", (*TextPart)(nil), nil, false},
		{"typed nil reasoning", (*ReasoningPart)(nil), nil, false},
		{"typed nil tool call", (*ToolCallPart)(nil), nil, false},
		{"typed nil file", (*FilePart)(nil), nil, false},
		{"value", TextPart{Text: "a"}, TextPart{Text: "a"}, true},
		{"pointer text", &TextPart{Text: "a"}, TextPart{Text: "a"}, true},
		{"pointer reasoning", &ReasoningPart{Text: "r"}, ReasoningPart{Text: "r"}, true},
		{"pointer tool call", &ToolCallPart{ToolName: "x"}, ToolCallPart{ToolName: "x"}, true},
		{"pointer file", &FilePart{MediaType: "audio/wav"}, FilePart{MediaType: "audio/wav"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := partValue(tt.part)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMediaRule(t *testing.T) {
	router, tr := newTurn(t, RoutingInput{SelectedModelID: "alpha/small", AttachmentTypes: []string{"Audio"}})
	stage := router.rules[1]

	require.Equal(t, RuleMediaAttachment, stage.name())
	require.True(t, stage.match(tr))
	out, ok := stage.apply(tr)
	require.True(t, ok)
	assert.Equal(t, "beta/any", out.modelID)
	assert.Equal(t, "Audio file detected. Switched to Beta Any because Beta Any models accept audio input natively.", out.reason)

	_, tr = newTurn(t, RoutingInput{SelectedModelID: "alpha/small", AttachmentTypes: []string{"image", "pdf"}})
	assert.False(t, stage.match(tr))
}

func TestReasoningToolsRule(t *testing.T) {
	router, tr := newTurn(t, RoutingInput{SelectedModelID: "alpha/small", ReasoningEnabled: true, ToolsEnabled: true})
	stage := router.rules[2]

	require.Equal(t, RuleReasoningTools, stage.name())
	require.True(t, stage.match(tr), "provider list is case insensitive")
	out, ok := stage.apply(tr)
	require.True(t, ok)
	assert.Equal(t, "beta/any", out.modelID)
	assert.Equal(t, "Alpha models cannot call tools while reasoning is enabled. Switched to Beta Any (beta/any).", out.reason)

	_, tr = newTurn(t, RoutingInput{SelectedModelID: "beta/any", ReasoningEnabled: true, ToolsEnabled: true})
	assert.False(t, stage.match(tr))
}

func TestOverflowRule(t *testing.T) {
	// 400 chars + "user: " = 102 tokens against a 100 token window.
	msgs := []Message{{Role: RoleUser, Parts: []Part{TextPart{Text: string(make([]byte, 400))}}}}
	router, tr := newTurn(t, RoutingInput{SelectedModelID: "alpha/small", Messages: msgs})
	stage := router.rules[3]

	require.Equal(t, RuleContextOverflow, stage.name())
	require.True(t, stage.match(tr))
	out, ok := stage.apply(tr)
	require.True(t, ok)
	assert.Equal(t, "alpha/big", out.modelID)
	assert.Equal(t, "Conversation uses 102% of the alpha/small context window. Switched to alpha/big with a 1000 token context window.", out.reason)
}

func TestOverflowRule_DeclinesWithoutCandidate(t *testing.T) {
	msgs := []Message{{Role: RoleUser, Parts: []Part{TextPart{Text: string(make([]byte, 4000))}}}}
	router, tr := newTurn(t, RoutingInput{SelectedModelID: "alpha/big", Messages: msgs})
	stage := router.rules[3]

	require.True(t, stage.match(tr))
	_, ok := stage.apply(tr)
	assert.False(t, ok)
}

func TestUtilizationThresholds(t *testing.T) {
	tests := []struct {
		tokens, limit int
		warn, crit    bool
		available     int
	}{
		{0, 100, false, false, 95},
		{79, 100, false, false, 16},
		{80, 100, true, false, 15},
		{94, 100, true, false, 1},
		{95, 100, true, true, 0},
		{200, 100, true, true, 0},
		{1, 0, true, true, 0},
	}

	for _, tt := range tests {
		u := utilization(tt.tokens, tt.limit)
		assert.Equal(t, tt.warn, u.IsWarning, "tokens=%d limit=%d", tt.tokens, tt.limit)
		assert.Equal(t, tt.crit, u.IsCritical, "tokens=%d limit=%d", tt.tokens, tt.limit)
		assert.Equal(t, tt.available, u.AvailableTokens, "tokens=%d limit=%d", tt.tokens, tt.limit)
	}
}

func TestNeededCapacity(t *testing.T) {
	assert.Equal(t, 0, NeededCapacity(0))
	assert.Equal(t, 0, NeededCapacity(-5))
	assert.Equal(t, 2, NeededCapacity(1))
	assert.Equal(t, 110, NeededCapacity(100))
	assert.Equal(t, 112, NeededCapacity(101))
	assert.Equal(t, 100000, NeededCapacity(90909))
}

func TestDefaultUpgradePolicy(t *testing.T) {
	candidates := []ModelEntry{
		{ID: "b/huge", Provider: "b", ContextWindow: 9000},
		{ID: "a/large", Provider: "a", ContextWindow: 5000},
		{ID: "b/mid", Provider: "b", ContextWindow: 2000},
		{ID: "a/medium", Provider: "a", ContextWindow: 3000},
	}

	ids := func(ms []ModelEntry) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.ID
		}
		return out
	}

	got := defaultUpgradePolicy{}.Select(ModelEntry{Provider: "a"}, candidates)
	assert.Equal(t, []string{"a/medium", "a/large", "b/mid", "b/huge"}, ids(got))

	got = defaultUpgradePolicy{}.Select(ModelEntry{Provider: "c"}, candidates)
	assert.Equal(t, []string{"b/mid", "a/medium", "a/large", "b/huge"}, ids(got))

	assert.Equal(t, "b/huge", candidates[0].ID, "input is not reordered")
}

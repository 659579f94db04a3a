package modelroute

import (
	"encoding/json"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// ContextWarningThreshold is the utilization at which a conversation is flagged as warning.
	ContextWarningThreshold = 0.80

	// ContextCriticalThreshold is the utilization at which a conversation is flagged as
	// critical. It is also the safety ceiling used for AvailableTokens.
	ContextCriticalThreshold = 0.95

	// DefaultCharsPerToken is used for providers without a dedicated ratio.
	DefaultCharsPerToken = 4.0

	recentMessageCount = 3
	previewMaxChars    = 200
)

// defaultCharsPerToken holds provider-specific characters-per-token ratios.
var defaultCharsPerToken = map[string]float64{
	"anthropic": 3.5,
}

// EstimatorConfig configures an Estimator.
type EstimatorConfig struct {
	DefaultCharsPerToken float64            `yaml:"default_chars_per_token"`
	CharsPerToken        map[string]float64 `yaml:"chars_per_token"`
}

// Estimator approximates token counts with per-provider character ratios.
// It is immutable after construction and safe for concurrent use.
type Estimator struct {
	fallback float64
	ratios   map[string]float64
}

var defaultEstimator = NewEstimator(EstimatorConfig{})

// NewEstimator creates an Estimator. Missing or non-positive ratios fall back to
// the built-in table.
func NewEstimator(cfg EstimatorConfig) *Estimator {
	e := &Estimator{
		fallback: cfg.DefaultCharsPerToken,
		ratios:   make(map[string]float64, len(defaultCharsPerToken)+len(cfg.CharsPerToken)),
	}
	if e.fallback <= 0 {
		e.fallback = DefaultCharsPerToken
	}
	for p, r := range defaultCharsPerToken {
		e.ratios[p] = r
	}
	for p, r := range cfg.CharsPerToken {
		if r > 0 {
			e.ratios[strings.ToLower(p)] = r
		}
	}
	return e
}

// CharsPerToken returns the ratio used for provider.
func (e *Estimator) CharsPerToken(provider string) float64 {
	if r, ok := e.ratios[strings.ToLower(provider)]; ok {
		return r
	}
	return e.fallback
}

// EstimateTokens returns ceil(chars / charsPerToken(provider)). Empty text is 0.
func (e *Estimator) EstimateTokens(text, provider string) int {
	if text == "" {
		return 0
	}
	chars := utf8.RuneCountInString(text)
	return int(math.Ceil(float64(chars) / e.CharsPerToken(provider)))
}

// EstimateMessageTokens estimates one message: a "<role>: " label plus every part.
func (e *Estimator) EstimateMessageTokens(msg Message, provider string) int {
	total := e.EstimateTokens(string(msg.Role)+": ", provider)
	v := tokenVisitor{e: e, provider: provider}
	for _, p := range msg.Parts {
		p, ok := partValue(p)
		if !ok {
			continue
		}
		total += p.accept(v)
	}
	return total
}

// EstimateConversationTokens sums EstimateMessageTokens over messages.
func (e *Estimator) EstimateConversationTokens(messages []Message, provider string) int {
	total := 0
	for _, m := range messages {
		total += e.EstimateMessageTokens(m, provider)
	}
	return total
}

// CalculateContextUtilization estimates messages against a context window.
// A non-positive contextLimit is clamped to 1.
func (e *Estimator) CalculateContextUtilization(messages []Message, contextLimit int, provider string) ContextUtilization {
	return utilization(e.EstimateConversationTokens(messages, provider), contextLimit)
}

func utilization(tokens, contextLimit int) ContextUtilization {
	if contextLimit < 1 {
		contextLimit = 1
	}
	pct := float64(tokens) / float64(contextLimit)
	ceiling := int(math.Floor(float64(contextLimit) * ContextCriticalThreshold))
	return ContextUtilization{
		EstimatedTokens:    tokens,
		ContextLimit:       contextLimit,
		UtilizationPercent: pct,
		IsWarning:          pct >= ContextWarningThreshold,
		IsCritical:         pct >= ContextCriticalThreshold,
		AvailableTokens:    max(0, ceiling-tokens),
	}
}

// BuildMessageMetadata summarizes a conversation for diagnostics.
func (e *Estimator) BuildMessageMetadata(messages []Message) MessageMetadata {
	md := MessageMetadata{
		MessageCount:      len(messages),
		ConversationDepth: len(messages),
		EstimatedTokens:   e.EstimateConversationTokens(messages, ""),
		RecentMessages:    []MessagePreview{},
		AttachmentTypes:   AttachmentTypes(messages),
	}

	start := max(0, len(messages)-recentMessageCount)
	for _, m := range messages[start:] {
		md.RecentMessages = append(md.RecentMessages, previewMessage(m))
	}
	return md
}

func previewMessage(m Message) MessagePreview {
	var texts []string
	hasAttachments := false
	for _, p := range m.Parts {
		p, _ := partValue(p)
		switch p := p.(type) {
		case TextPart:
			if p.Text != "" {
				texts = append(texts, p.Text)
			}
		case FilePart:
			hasAttachments = true
		}
	}
	return MessagePreview{
		TextPreview:    truncate(strings.Join(texts, " "), previewMaxChars),
		HasAttachments: hasAttachments,
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// tokenVisitor estimates the textual contribution of each part kind.
type tokenVisitor struct {
	e        *Estimator
	provider string
}

func (v tokenVisitor) visitText(p TextPart) int {
	return v.e.EstimateTokens(p.Text, v.provider)
}

func (v tokenVisitor) visitReasoning(p ReasoningPart) int {
	return v.e.EstimateTokens(p.Text, v.provider)
}

// visitToolCall estimates the transcript form: name, input, then output if present.
func (v tokenVisitor) visitToolCall(p ToolCallPart) int {
	var b strings.Builder
	b.WriteString(p.ToolName)
	if s, ok := serialize(p.Input); ok {
		b.WriteString(s)
	}
	if s, ok := serialize(p.Output); ok {
		b.WriteString(s)
	}
	return v.e.EstimateTokens(b.String(), v.provider)
}

// Attachments are sent out of band and are not counted.
func (v tokenVisitor) visitFile(FilePart) int { return 0 }

func serialize(x any) (string, bool) {
	switch x := x.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	}
	data, err := json.Marshal(x)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// EstimateTokens estimates text with the built-in ratios.
func EstimateTokens(text, provider string) int {
	return defaultEstimator.EstimateTokens(text, provider)
}

// EstimateMessageTokens estimates a single message with the built-in ratios.
func EstimateMessageTokens(msg Message, provider string) int {
	return defaultEstimator.EstimateMessageTokens(msg, provider)
}

// EstimateConversationTokens estimates a whole conversation with the built-in ratios.
func EstimateConversationTokens(messages []Message, provider string) int {
	return defaultEstimator.EstimateConversationTokens(messages, provider)
}

// CalculateContextUtilization computes utilization with the built-in ratios.
func CalculateContextUtilization(messages []Message, contextLimit int, provider string) ContextUtilization {
	return defaultEstimator.CalculateContextUtilization(messages, contextLimit, provider)
}

// BuildMessageMetadata summarizes a conversation with the built-in ratios.
func BuildMessageMetadata(messages []Message) MessageMetadata {
	return defaultEstimator.BuildMessageMetadata(messages)
}

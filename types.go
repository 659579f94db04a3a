package modelroute

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents one turn of a chat history.
// Parts are ordered; a nil or typed-nil part is treated as malformed and skipped.
// Pointer parts are read like their values.
type Message struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// PartKind names the kind of a message part.
type PartKind string

const (
	PartText      PartKind = "text"
	PartReasoning PartKind = "reasoning"
	PartToolCall  PartKind = "tool-call"
	PartFile      PartKind = "file"
)

// Part is a typed content fragment of a Message. The set of part kinds is closed:
// only the types declared in this package implement it.
type Part interface {
	Kind() PartKind
	accept(v partVisitor) int
}

// partVisitor has one method per part kind, so a new kind cannot be added
// without every visitor handling it.
type partVisitor interface {
	visitText(TextPart) int
	visitReasoning(ReasoningPart) int
	visitToolCall(ToolCallPart) int
	visitFile(FilePart) int
}

// TextPart is plain message text.
type TextPart struct {
	Text string `json:"text"`
}

// ReasoningPart is model reasoning emitted alongside an answer.
type ReasoningPart struct {
	Text string `json:"text"`
}

// ToolCallPart is a tool invocation. Output is nil until the tool has run.
type ToolCallPart struct {
	ToolName string `json:"toolName"`
	Input    any    `json:"input,omitempty"`
	Output   any    `json:"output,omitempty"`
}

// FilePart is an attachment reference.
type FilePart struct {
	MediaType string `json:"mediaType"`
	Filename  string `json:"filename,omitempty"`
}

func (TextPart) Kind() PartKind      { return PartText }
func (ReasoningPart) Kind() PartKind { return PartReasoning }
func (ToolCallPart) Kind() PartKind  { return PartToolCall }
func (FilePart) Kind() PartKind      { return PartFile }

// partValue returns p as a value part. Pointer parts are dereferenced; nil and
// typed-nil parts are malformed and report false.
func partValue(p Part) (Part, bool) {
	switch p := p.(type) {
	case nil:
		return nil, false
	case *TextPart:
		if p == nil {
			return nil, false
		}
		return *p, true
	case *ReasoningPart:
		if p == nil {
			return nil, false
		}
		return *p, true
	case *ToolCallPart:
		if p == nil {
			return nil, false
		}
		return *p, true
	case *FilePart:
		if p == nil {
			return nil, false
		}
		return *p, true
	default:
		return p, true
	}
}

func (p TextPart) accept(v partVisitor) int      { return v.visitText(p) }
func (p ReasoningPart) accept(v partVisitor) int { return v.visitReasoning(p) }
func (p ToolCallPart) accept(v partVisitor) int  { return v.visitToolCall(p) }
func (p FilePart) accept(v partVisitor) int      { return v.visitFile(p) }

// RoutingInput is everything the router needs to pick the model for one turn.
type RoutingInput struct {
	// SelectedModelID is the model currently active for the caller.
	SelectedModelID string

	// UserOverride, when non-empty, is authoritative and bypasses every other rule.
	UserOverride string

	// AttachmentTypes are attachment kinds seen in the conversation
	// (e.g. "audio", "video", "image", "pdf"). See AttachmentTypes.
	AttachmentTypes []string

	ReasoningEnabled bool
	ToolsEnabled     bool

	Messages []Message
}

// RoutingDecision describes which model serves a turn and why.
type RoutingDecision struct {
	ModelID         string `json:"modelId"`
	OriginalModelID string `json:"originalModelId"`
	WasChanged      bool   `json:"wasChanged"`

	// Reason explains a change. Empty when WasChanged is false.
	Reason string `json:"reason,omitempty"`

	// Rule is the name of the rule stage that decided the model, if any.
	Rule string `json:"rule,omitempty"`

	// ContextUtilization is computed against the final model.
	ContextUtilization ContextUtilization `json:"contextUtilization"`
}

// ContextUtilization is a snapshot of how much of a context window a conversation uses.
type ContextUtilization struct {
	EstimatedTokens    int     `json:"estimatedTokens"`
	ContextLimit       int     `json:"contextLimit"`
	UtilizationPercent float64 `json:"utilizationPercent"`
	IsWarning          bool    `json:"isWarning"`
	IsCritical         bool    `json:"isCritical"`
	AvailableTokens    int     `json:"availableTokens"`
}

// MessageMetadata is a diagnostic summary of a conversation.
type MessageMetadata struct {
	MessageCount      int              `json:"messageCount"`
	ConversationDepth int              `json:"conversationDepth"`
	EstimatedTokens   int              `json:"estimatedTokens"`
	RecentMessages    []MessagePreview `json:"recentMessages"`
	AttachmentTypes   []string         `json:"attachmentTypes"`
}

// MessagePreview summarizes one of the most recent messages.
type MessagePreview struct {
	TextPreview    string `json:"textPreview"`
	HasAttachments bool   `json:"hasAttachments"`
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ineyio/modelroute"
)

// wireMessage is the conversation file form of a message. Content is a
// shorthand for a single text part.
type wireMessage struct {
	Role    string            `json:"role"`
	Content string            `json:"content"`
	Parts   []json.RawMessage `json:"parts"`
}

type wirePart struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	ToolName  string `json:"toolName"`
	Input     any    `json:"input"`
	Output    any    `json:"output"`
	MediaType string `json:"mediaType"`
	Filename  string `json:"filename"`
}

// readConversation loads a JSON array of messages from path, or from stdin when path is "-".
func readConversation(path string, stdin io.Reader, logger *slog.Logger) ([]modelroute.Message, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}
	return decodeConversation(data, logger)
}

// decodeConversation converts wire messages into modelroute messages.
// Parts that cannot be decoded or have an unknown type are dropped.
func decodeConversation(data []byte, logger *slog.Logger) ([]modelroute.Message, error) {
	var wire []wireMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to parse conversation: %w", err)
	}

	messages := make([]modelroute.Message, 0, len(wire))
	for i, wm := range wire {
		msg := modelroute.Message{Role: modelroute.Role(wm.Role)}
		if wm.Content != "" {
			msg.Parts = append(msg.Parts, modelroute.TextPart{Text: wm.Content})
		}
		for j, raw := range wm.Parts {
			part, ok := decodePart(raw)
			if !ok {
				logger.Debug("skipping message part", "message", i, "part", j)
				continue
			}
			msg.Parts = append(msg.Parts, part)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func decodePart(raw json.RawMessage) (modelroute.Part, bool) {
	var wp wirePart
	if err := json.Unmarshal(raw, &wp); err != nil {
		return nil, false
	}
	switch modelroute.PartKind(wp.Type) {
	case modelroute.PartText:
		return modelroute.TextPart{Text: wp.Text}, true
	case modelroute.PartReasoning:
		return modelroute.ReasoningPart{Text: wp.Text}, true
	case modelroute.PartToolCall:
		return modelroute.ToolCallPart{ToolName: wp.ToolName, Input: wp.Input, Output: wp.Output}, true
	case modelroute.PartFile:
		return modelroute.FilePart{MediaType: wp.MediaType, Filename: wp.Filename}, true
	default:
		return nil, false
	}
}

package message

import (
	"encoding/json"
)

const (
	UserRole      = "user"
	AssistantRole = "assistant"
)

const (
	TextType       = "text"
	ReasoningType  = "reasoning"
	ToolUseType    = "tool_use"
	ToolResultType = "tool_result"
	ImageType      = "image"
)

// Message is one turn of a conversation. Content is stored as a tagged union
// so heterogeneous block payloads survive a JSON round trip.
//
// The condense/truncation fields are lifecycle markers: a message carrying
// CondenseParent=X is superseded once any message with IsSummary and
// CondenseID=X exists. The truncation pair works the same way and the two
// mechanisms are independent.
type Message struct {
	Role    string      `json:"role"`
	Content ContentList `json:"content"`
	// Epoch milliseconds. List order is canonical; Ts is kept for merging
	// against the UI message stream.
	Ts int64 `json:"ts,omitempty"`

	IsSummary      bool   `json:"isSummary,omitempty"`
	CondenseID     string `json:"condenseId,omitempty"`
	CondenseParent string `json:"condenseParent,omitempty"`

	IsTruncationMarker bool   `json:"isTruncationMarker,omitempty"`
	TruncationID       string `json:"truncationId,omitempty"`
	TruncationParent   string `json:"truncationParent,omitempty"`
}

type TextBlock struct {
	Text string `json:"text"`
}

type ReasoningBlock struct {
	Text    string   `json:"text,omitempty"`
	Summary []string `json:"summary,omitempty"`
}

type ToolUseBlock struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

type ToolResultBlock struct {
	ToolUseID string `json:"tool_use_id"`
	Content   any    `json:"content"`
	IsError   bool   `json:"is_error,omitempty"`
}

type ImageSource struct {
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type ImageBlock struct {
	Source ImageSource `json:"source"`
}

// ContentBlockUnion is a tagged union over the block types above. The tag
// field selects the active variant. Blocks with an unrecognized tag keep
// their raw payload so they re-serialize unchanged and render generically
// instead of being dropped.
type ContentBlockUnion struct {
	Type string `json:"type"`

	OfText       *TextBlock       `json:"-"`
	OfReasoning  *ReasoningBlock  `json:"-"`
	OfToolUse    *ToolUseBlock    `json:"-"`
	OfToolResult *ToolResultBlock `json:"-"`
	OfImage      *ImageBlock      `json:"-"`

	// Raw holds the original payload for unknown block types.
	Raw json.RawMessage `json:"-"`
}

func NewTextBlock(text string) ContentBlockUnion {
	return ContentBlockUnion{
		Type:   TextType,
		OfText: &TextBlock{Text: text},
	}
}

func NewReasoningBlock(text string, summary []string) ContentBlockUnion {
	return ContentBlockUnion{
		Type:        ReasoningType,
		OfReasoning: &ReasoningBlock{Text: text, Summary: summary},
	}
}

func NewToolUseBlock(id, name string, input map[string]any) ContentBlockUnion {
	return ContentBlockUnion{
		Type:      ToolUseType,
		OfToolUse: &ToolUseBlock{ID: id, Name: name, Input: input},
	}
}

func NewToolResultBlock(toolUseID string, content any, isError bool) ContentBlockUnion {
	return ContentBlockUnion{
		Type:         ToolResultType,
		OfToolResult: &ToolResultBlock{ToolUseID: toolUseID, Content: content, IsError: isError},
	}
}

func NewImageBlock(mediaType, data string) ContentBlockUnion {
	return ContentBlockUnion{
		Type:    ImageType,
		OfImage: &ImageBlock{Source: ImageSource{MediaType: mediaType, Data: data}},
	}
}

func (c ContentBlockUnion) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case TextType:
		if c.OfText != nil {
			return json.Marshal(struct {
				Type string `json:"type"`
				Text string `json:"text"`
			}{Type: TextType, Text: c.OfText.Text})
		}
	case ReasoningType:
		if c.OfReasoning != nil {
			return json.Marshal(struct {
				Type    string   `json:"type"`
				Text    string   `json:"text,omitempty"`
				Summary []string `json:"summary,omitempty"`
			}{Type: ReasoningType, Text: c.OfReasoning.Text, Summary: c.OfReasoning.Summary})
		}
	case ToolUseType:
		if c.OfToolUse != nil {
			return json.Marshal(struct {
				Type  string         `json:"type"`
				ID    string         `json:"id"`
				Name  string         `json:"name"`
				Input map[string]any `json:"input"`
			}{Type: ToolUseType, ID: c.OfToolUse.ID, Name: c.OfToolUse.Name, Input: c.OfToolUse.Input})
		}
	case ToolResultType:
		if c.OfToolResult != nil {
			return json.Marshal(struct {
				Type      string `json:"type"`
				ToolUseID string `json:"tool_use_id"`
				Content   any    `json:"content"`
				IsError   bool   `json:"is_error,omitempty"`
			}{Type: ToolResultType, ToolUseID: c.OfToolResult.ToolUseID, Content: c.OfToolResult.Content, IsError: c.OfToolResult.IsError})
		}
	case ImageType:
		if c.OfImage != nil {
			return json.Marshal(struct {
				Type   string      `json:"type"`
				Source ImageSource `json:"source"`
			}{Type: ImageType, Source: c.OfImage.Source})
		}
	default:
		if len(c.Raw) > 0 {
			return c.Raw, nil
		}
	}
	return json.Marshal(struct {
		Type string `json:"type"`
	}{Type: c.Type})
}

func (c *ContentBlockUnion) UnmarshalJSON(data []byte) error {
	var typeOnly struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &typeOnly); err != nil {
		return err
	}

	c.Type = typeOnly.Type

	switch c.Type {
	case TextType:
		var b TextBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		c.OfText = &b
	case ReasoningType:
		var b ReasoningBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		c.OfReasoning = &b
	case ToolUseType:
		var b ToolUseBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		c.OfToolUse = &b
	case ToolResultType:
		var b ToolResultBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		c.OfToolResult = &b
	case ImageType:
		var b ImageBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		c.OfImage = &b
	default:
		c.Raw = append(json.RawMessage(nil), data...)
	}

	return nil
}

// PlainText returns the human-readable text carried by the block, or "" when
// the block has none (tool blocks, images, unknown types).
func (c ContentBlockUnion) PlainText() string {
	switch {
	case c.OfText != nil:
		return c.OfText.Text
	case c.OfReasoning != nil:
		return c.OfReasoning.Text
	}
	return ""
}

// Preview returns the first non-empty text of a message, used for task list
// entries.
func (m Message) Preview() string {
	for _, block := range m.Content {
		if text := block.PlainText(); text != "" {
			return text
		}
	}
	return ""
}

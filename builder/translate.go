package builder

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/RooCodeInc/RooVersation/message"
	"github.com/RooCodeInc/RooVersation/tools"
)

// ToChatRequest translates the draft into a chat-completions request body.
//
// User messages: each tool_result block becomes a separate role-"tool"
// message carrying the tool_use_id; the remaining blocks are emitted together
// as one user message, images as data-URL parts. Assistant messages: text
// blocks join into a single newline-separated string and tool_use blocks
// become tool calls with JSON-stringified input. Pure, no network.
func ToChatRequest(d *Draft, defs []tools.ToolDefinition, model string) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{Model: model}

	for _, draft := range d.Messages {
		switch draft.Role {
		case message.UserRole:
			req.Messages = append(req.Messages, translateUser(draft.Message)...)
		case message.AssistantRole:
			req.Messages = append(req.Messages, translateAssistant(draft.Message))
		}
	}

	if len(defs) > 0 {
		req.Tools = tools.ToOpenAI(defs)
	}
	return req
}

func translateUser(msg message.Message) []openai.ChatCompletionMessage {
	var out []openai.ChatCompletionMessage
	var parts []openai.ChatMessagePart

	for _, block := range msg.Content {
		switch {
		case block.OfToolResult != nil:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: block.OfToolResult.ToolUseID,
				Content:    stringifyContent(block.OfToolResult.Content),
			})
		case block.OfImage != nil:
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: dataURL(block.OfImage.Source),
				},
			})
		default:
			if text := block.PlainText(); text != "" {
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeText,
					Text: text,
				})
			}
		}
	}

	if len(parts) > 0 {
		out = append(out, openai.ChatCompletionMessage{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		})
	}
	return out
}

func translateAssistant(msg message.Message) openai.ChatCompletionMessage {
	var texts []string
	var calls []openai.ToolCall

	for _, block := range msg.Content {
		switch {
		case block.OfText != nil:
			texts = append(texts, block.OfText.Text)
		case block.OfToolUse != nil:
			args, err := json.Marshal(block.OfToolUse.Input)
			if err != nil {
				args = []byte("{}")
			}
			calls = append(calls, openai.ToolCall{
				ID:   block.OfToolUse.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      block.OfToolUse.Name,
					Arguments: string(args),
				},
			})
		}
	}

	return openai.ChatCompletionMessage{
		Role:      openai.ChatMessageRoleAssistant,
		Content:   strings.Join(texts, "\n"),
		ToolCalls: calls,
	}
}

func stringifyContent(content any) string {
	switch v := content.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	if raw, err := json.Marshal(content); err == nil {
		return string(raw)
	}
	return fmt.Sprintf("%v", content)
}

func dataURL(src message.ImageSource) string {
	return fmt.Sprintf("data:%s;base64,%s", src.MediaType, src.Data)
}

// FromChatResponse converts the response's first choice back into a draft
// assistant message ready to append to the conversation.
func FromChatResponse(resp openai.ChatCompletionResponse) (DraftMessage, error) {
	if len(resp.Choices) == 0 {
		return DraftMessage{}, fmt.Errorf("response carried no choices")
	}

	choice := resp.Choices[0].Message
	content := make(message.ContentList, 0, 1+len(choice.ToolCalls))
	if choice.Content != "" {
		content = append(content, message.NewTextBlock(choice.Content))
	}
	for _, call := range choice.ToolCalls {
		input := map[string]any{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &input); err != nil {
				input = map[string]any{"_raw": call.Function.Arguments}
			}
		}
		content = append(content, message.NewToolUseBlock(call.ID, call.Function.Name, input))
	}

	return DraftMessage{
		LocalID: newLocalID(),
		Message: message.Message{
			Role:    message.AssistantRole,
			Content: content,
			Ts:      time.Now().UnixMilli(),
		},
	}, nil
}

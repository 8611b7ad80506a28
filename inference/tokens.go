package inference

import (
	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"
)

const perMessageOverhead = 4

// EstimateTokens approximates the prompt size of a request so the builder can
// show it before sending. Models without a known encoding fall back to a
// four-characters-per-token estimate.
func EstimateTokens(req openai.ChatCompletionRequest) int {
	enc, err := tiktoken.EncodingForModel(req.Model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
	}

	count := 0
	for _, msg := range req.Messages {
		count += perMessageOverhead
		count += countText(enc, err == nil, msg.Role)
		count += countText(enc, err == nil, msg.Content)
		for _, part := range msg.MultiContent {
			if part.Type == openai.ChatMessagePartTypeText {
				count += countText(enc, err == nil, part.Text)
			}
		}
		for _, call := range msg.ToolCalls {
			count += countText(enc, err == nil, call.Function.Name)
			count += countText(enc, err == nil, call.Function.Arguments)
		}
	}
	return count
}

func countText(enc *tiktoken.Tiktoken, ok bool, text string) int {
	if text == "" {
		return 0
	}
	if !ok || enc == nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

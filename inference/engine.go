// Package inference wraps the chat-completions API the builder exercises.
package inference

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

type Engine interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	Name() string
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

type openAIEngine struct {
	client *openai.Client
}

// NewEngine builds an engine against any chat-completions-compatible endpoint;
// BaseURL overrides the default OpenAI host.
func NewEngine(cfg Config) Engine {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openAIEngine{client: openai.NewClientWithConfig(clientCfg)}
}

func (e *openAIEngine) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return e.client.CreateChatCompletion(ctx, req)
}

func (e *openAIEngine) Name() string {
	return "openai"
}

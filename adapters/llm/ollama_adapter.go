package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/internal/config"
	"github.com/khoahotran/career-compass/pkg/logger"
)

const defaultOllamaModel = "phi3:mini"

type ollamaLLMAdapter struct {
	client *openai.Client
	model  string
	log    logger.Logger
}

// NewOllamaLLMAdapter talks to any OpenAI-compatible chat endpoint, Ollama by default.
func NewOllamaLLMAdapter(cfg config.Config, log logger.Logger) (service.LLMService, error) {
	if cfg.Ollama.Host == "" {
		return nil, fmt.Errorf("ollama Host is not configured")
	}

	apiKey := cfg.LLM.APIKey
	if apiKey == "" {
		apiKey = "dummy-key"
	}
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = cfg.Ollama.Host

	model := cfg.LLM.Model
	if model == "" {
		model = defaultOllamaModel
	}

	log.Info("Ollama chat adapter initialized", zap.String("host", cfg.Ollama.Host), zap.String("model", model))
	return &ollamaLLMAdapter{client: openai.NewClientWithConfig(clientCfg), model: model, log: log}, nil
}

func (a *ollamaLLMAdapter) GenerateChatResponse(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Stream: false,
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("ollama chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama returned no chat choices")
	}

	return resp.Choices[0].Message.Content, nil
}

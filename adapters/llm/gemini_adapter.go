package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/internal/config"
	"github.com/khoahotran/career-compass/pkg/logger"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type geminiLLMAdapter struct {
	client *genai.Client
	model  string
	log    logger.Logger
}

func NewGeminiLLMAdapter(ctx context.Context, cfg config.Config, log logger.Logger) (service.LLMService, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	model := cfg.LLM.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	log.Info("Gemini LLM adapter initialized", zap.String("model", model))
	return &geminiLLMAdapter{client: client, model: model, log: log}, nil
}

func (a *geminiLLMAdapter) GenerateChatResponse(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}
	return resp.Text(), nil
}

package llm

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/internal/config"
	"github.com/khoahotran/career-compass/pkg/logger"
)

var ErrLLMDisabled = errors.New("no LLM provider configured")

type disabledLLM struct{}

func (disabledLLM) GenerateChatResponse(context.Context, string) (string, error) {
	return "", ErrLLMDisabled
}

// NewDisabledLLM always fails, so the advisor answers with its placeholders.
func NewDisabledLLM() service.LLMService {
	return disabledLLM{}
}

// NewLLMService picks the provider named by llm.provider. A provider that
// cannot be initialized degrades to the disabled LLM instead of failing startup.
func NewLLMService(ctx context.Context, cfg config.Config, log logger.Logger) service.LLMService {
	var (
		svc service.LLMService
		err error
	)
	switch cfg.LLM.Provider {
	case config.LLMProviderOllama:
		svc, err = NewOllamaLLMAdapter(cfg, log)
	case config.LLMProviderGemini, "":
		svc, err = NewGeminiLLMAdapter(ctx, cfg, log)
	default:
		log.Warn("Unknown LLM provider; advisor disabled", zap.String("provider", cfg.LLM.Provider))
		return NewDisabledLLM()
	}
	if err != nil {
		log.Warn("LLM provider unavailable; advisor disabled", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
		return NewDisabledLLM()
	}
	return svc
}

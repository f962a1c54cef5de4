// factory.go - Provider factory for creating AI provider instances

package ai

import (
	"fmt"

	"github.com/snapspend/expense_ai_service/configs"
	"github.com/snapspend/expense_ai_service/internal/logger"
)

// CreateProvider creates an AI provider based on configuration.
// A missing API key is not an error: it returns a nil provider, which
// callers treat as "remote paths disabled, use local fallbacks".
func CreateProvider() (Provider, error) {
	switch configs.AI_PROVIDER {
	case "gemini":
		if configs.GEMINI_API_KEY == "" {
			logger.Get().Warnw("no Gemini API key configured, remote AI disabled")
			return nil, nil
		}
		logger.Get().Infow("creating AI provider", "provider", "gemini", "model", configs.MODEL_NAME)
		return NewGeminiProvider(configs.GEMINI_API_KEY, configs.MODEL_NAME, configs.VISION_MODEL_NAME), nil

	case "openai":
		if configs.OPENAI_API_KEY == "" {
			logger.Get().Warnw("no OpenAI API key configured, remote AI disabled")
			return nil, nil
		}
		logger.Get().Infow("creating AI provider", "provider", "openai", "model", configs.MODEL_NAME)
		return NewOpenAIProvider(configs.OPENAI_API_KEY, configs.MODEL_NAME, configs.VISION_MODEL_NAME), nil

	default:
		return nil, fmt.Errorf("unsupported AI provider: %s (supported: gemini, openai)", configs.AI_PROVIDER)
	}
}

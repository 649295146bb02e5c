// File: internal/services/ai_service.go
package services

import (
	"context"

	"github.com/medassist-ng/ai-service/internal/services/ai"
)

// AIService wraps a completion provider with retry behavior and implements
// ai.Service. A nil *AIService is valid and means "no model configured":
// every consumer then runs its rule-based path only.
type AIService struct {
	provider ai.CompletionProvider
	config   *ai.Config
	retry    *ai.RetryConfig
	logger   Logger
}

func NewAIService(apiKey, baseURL, model string, logger Logger) (*AIService, error) {
	config := ai.DefaultConfig()
	config.APIKey = apiKey
	config.BaseURL = baseURL
	config.Model = model

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &AIService{
		provider: ai.NewOpenAIProvider(config),
		config:   config,
		retry:    ai.DefaultRetryConfig(),
		logger:   logger,
	}, nil
}

// Complete returns a single non-streamed completion, retrying transient
// provider failures. Callers are expected to fall back to local rules when
// this returns an error.
func (s *AIService) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if s == nil {
		return "", ai.NewConfigError("no completion provider configured")
	}

	var reply string
	err := ai.RetryWithBackoff(ctx, s.retry, func(ctx context.Context) error {
		var callErr error
		reply, callErr = s.provider.Complete(ctx, systemPrompt, userPrompt)
		return callErr
	})
	if err != nil {
		s.logger.Warn("completion failed after retries", "error", err)
		return "", err
	}
	return reply, nil
}

func (s *AIService) GetProviderStatus() ai.ProviderStatus {
	if s == nil {
		return ai.ProviderStatus{IsHealthy: false, Message: "not configured"}
	}
	return ai.ProviderStatus{IsHealthy: true, Model: s.config.Model, Message: "completion provider healthy"}
}

// File: internal/services/ai/interface.go
package ai

import "context"

// ProviderStatus represents LLM provider health
type ProviderStatus struct {
	IsHealthy bool
	Model     string
	Message   string
}

// CompletionProvider is the opaque text-completion function every AI-assisted
// component depends on: prompt in, text out, may fail or time out.
type CompletionProvider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	HealthCheck(ctx context.Context) error
}

// Service defines the high-level completion interface handed to the
// classifier, slot filler, triage scorer and safety validator.
type Service interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	GetProviderStatus() ProviderStatus
}

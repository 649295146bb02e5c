// File: internal/services/ai/resilient.go
package ai

import "context"

// Resilient runs primary and, on any error, hands control to the local
// fallback. The classifier, slot filler, triage scorer and safety validator
// all follow the same try-model-then-rules shape; this adapter keeps that
// policy in one place. The fallback must not fail: it returns a value built
// entirely from local deterministic logic.
func Resilient[T any](ctx context.Context, primary func(ctx context.Context) (T, error), fallback func() T) (T, error) {
	if primary == nil {
		return fallback(), nil
	}
	result, err := primary(ctx)
	if err != nil {
		return fallback(), err
	}
	return result, nil
}

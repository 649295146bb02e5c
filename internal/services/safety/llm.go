// File: internal/services/safety/llm.go
package safety

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services/ai"
)

const reviewSystemPrompt = "You review draft replies from a medical triage assistant. Respond with JSON: {\"flagged\": bool, \"reason\": string}. Flag any reply that diagnoses, prescribes, or discourages seeking care."

var reviewJSONPattern = regexp.MustCompile(`\{[^{}]*\}`)

// ModelValidator adds a model review pass on top of the keyword Validator.
// The keyword verdict is authoritative: the model can only add a warn on a
// response the rules passed, never clear one the rules flagged.
type ModelValidator struct {
	*Validator
	completions ai.Service
}

func NewModelValidator(validator *Validator, completions ai.Service) *ModelValidator {
	return &ModelValidator{Validator: validator, completions: completions}
}

// ValidateResponseWithModel runs the keyword checks, then, for responses the
// rules passed cleanly, asks the model for a second opinion.
func (m *ModelValidator) ValidateResponseWithModel(ctx context.Context, userMessage, response string, intent domain.Intent, triageLevel domain.TriageLevel) domain.SafetyResult {
	result := m.ValidateResponse(userMessage, response, intent, triageLevel)
	if result.Action != domain.SafetyLog || m.completions == nil {
		return result
	}

	flagged, err := ai.Resilient(ctx, func(ctx context.Context) (bool, error) {
		return m.reviewWithModel(ctx, response)
	}, func() bool {
		return false
	})
	if err != nil {
		m.logger.Warn("model safety review failed, keeping rule verdict", "error", err)
		return result
	}

	if flagged {
		m.logger.Warn("model flagged response the rules passed")
		result.Violations = append(result.Violations, domain.ViolationMedicalAdvice)
		result.Action = domain.SafetyWarn
		result.Reasoning = "Model review flagged possible medical advice"
	}
	return result
}

func (m *ModelValidator) reviewWithModel(ctx context.Context, response string) (bool, error) {
	prompt := fmt.Sprintf("Draft reply to review:\n\"%s\"\n\nOutput JSON:\n", response)

	reply, err := m.completions.Complete(ctx, reviewSystemPrompt, prompt)
	if err != nil {
		return false, err
	}

	match := reviewJSONPattern.FindString(reply)
	if match == "" {
		return false, ai.NewParseError("safety_review", "no JSON object in response", nil)
	}

	var parsed struct {
		Flagged bool `json:"flagged"`
	}
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return false, ai.NewParseError("safety_review", "JSON decode failed", err)
	}
	return parsed.Flagged, nil
}

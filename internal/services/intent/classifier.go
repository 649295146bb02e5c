// File: internal/services/intent/classifier.go
package intent

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services"
	"github.com/medassist-ng/ai-service/internal/services/ai"
)

// emergencyKeywords triggers immediate classification before any model call.
// Includes Nigerian Pidgin variants heard in real patient messages.
var emergencyKeywords = []string{
	"chest pain", "can't breathe", "can not breathe", "cannot breathe",
	"difficulty breathing", "heart attack", "stroke", "unconscious",
	"severe bleeding", "bleeding heavily", "suicide", "kill myself",
	"choking", "seizure", "collapsed", "unresponsive",
	"i no fit breathe", "chest dey pain me well well", "blood dey commot plenty",
}

var jsonObjectPattern = regexp.MustCompile(`\{[^}]+\}`)

// Classifier maps a patient message onto one of the supported intents.
// The model path is optional: with a nil completion service every message
// goes through the deterministic keyword rules.
type Classifier struct {
	completions ai.Service
	logger      services.Logger
}

func NewClassifier(completions ai.Service, logger services.Logger) *Classifier {
	if completions == nil || isNilService(completions) {
		logger.Info("intent classifier running rule-based only")
	} else {
		logger.Info("intent classifier running with model assistance")
	}
	return &Classifier{
		completions: completions,
		logger:      logger,
	}
}

// DetectEmergency reports whether the message contains any phrase that must
// short-circuit straight to the emergency flow.
func (c *Classifier) DetectEmergency(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range emergencyKeywords {
		if strings.Contains(lower, keyword) {
			c.logger.Warn("emergency keyword detected", "keyword", keyword)
			return true
		}
	}
	return false
}

// Classify returns the intent for a single patient message. Conversation
// history gives the model context; the rule fallback ignores it.
func (c *Classifier) Classify(ctx context.Context, message string, history []domain.ConversationMessage) domain.IntentResult {
	if c.DetectEmergency(message) {
		return domain.IntentResult{
			Intent:     domain.IntentEmergency,
			Confidence: 0.98,
			Reasoning:  "Emergency keywords detected in message",
		}
	}

	var primary func(ctx context.Context) (domain.IntentResult, error)
	if c.completions != nil && !isNilService(c.completions) {
		primary = func(ctx context.Context) (domain.IntentResult, error) {
			return c.classifyWithModel(ctx, message, history)
		}
	}

	result, err := ai.Resilient(ctx, primary, func() domain.IntentResult {
		return c.classifyWithRules(message)
	})
	if err != nil {
		c.logger.Warn("model classification failed, used rule fallback", "error", err)
	}

	c.logger.Info("classified message",
		"intent", string(result.Intent),
		"confidence", result.Confidence)
	return result
}

// BatchClassify classifies each message independently.
func (c *Classifier) BatchClassify(ctx context.Context, messages []string) []domain.IntentResult {
	results := make([]domain.IntentResult, 0, len(messages))
	for _, message := range messages {
		results = append(results, c.Classify(ctx, message, nil))
	}
	return results
}

func (c *Classifier) classifyWithModel(ctx context.Context, message string, history []domain.ConversationMessage) (domain.IntentResult, error) {
	prompt := buildClassificationPrompt(message, history)

	response, err := c.completions.Complete(ctx, classifierSystemPrompt, prompt)
	if err != nil {
		return domain.IntentResult{}, err
	}

	return c.parseModelResponse(response), nil
}

// parseModelResponse tolerates chatter around the JSON object and falls back
// to a low-confidence general inquiry when nothing parseable comes back.
func (c *Classifier) parseModelResponse(response string) domain.IntentResult {
	match := jsonObjectPattern.FindString(response)
	if match == "" {
		c.logger.Warn("no JSON object in model response")
		return domain.IntentResult{
			Intent:     domain.IntentGeneralInquiry,
			Confidence: 0.5,
			Reasoning:  "Failed to parse model response",
		}
	}

	var parsed struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		c.logger.Error("model response JSON decode failed", "error", err)
		return domain.IntentResult{
			Intent:     domain.IntentGeneralInquiry,
			Confidence: 0.5,
			Reasoning:  "JSON parsing error",
		}
	}

	intent, ok := domain.ParseIntent(parsed.Intent)
	if !ok {
		c.logger.Error("model returned unknown intent", "intent", parsed.Intent)
		intent = domain.IntentGeneralInquiry
	}

	confidence := parsed.Confidence
	if confidence <= 0 {
		confidence = 0.5
	}
	reasoning := parsed.Reasoning
	if reasoning == "" {
		reasoning = "No reasoning provided"
	}

	return domain.IntentResult{
		Intent:     intent,
		Confidence: confidence,
		Reasoning:  reasoning,
	}
}

func isNilService(s ai.Service) bool {
	svc, ok := s.(*services.AIService)
	return ok && svc == nil
}

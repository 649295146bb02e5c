// File: internal/services/triage/llm.go
package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services/ai"
)

const triageSystemPrompt = "You are a clinical triage assistant. Always respond with valid JSON containing a numeric score field between 1 and 10 and a brief reasoning field. You never diagnose; you only estimate urgency."

var triageJSONPattern = regexp.MustCompile(`\{[^{}]*\}`)

// ModelScorer layers a model-estimated score over the rule Scorer. The rule
// path stays normative: a red flag always forces 10, and the model estimate
// is clamped so it can raise urgency but never lower it below the rule score.
type ModelScorer struct {
	*Scorer
	completions ai.Service
}

func NewModelScorer(scorer *Scorer, completions ai.Service) *ModelScorer {
	return &ModelScorer{Scorer: scorer, completions: completions}
}

// TriageWithModel runs the full assessment with a model-assisted score.
func (m *ModelScorer) TriageWithModel(ctx context.Context, record domain.SymptomRecord, vitals *domain.VitalSigns, metadata *domain.PatientMetadata) domain.TriageResult {
	ruleScore := m.CalculateScore(record, vitals, metadata)
	category := checkRedFlags(combinedText(record))

	score := ruleScore
	if category == "" && m.completions != nil {
		modelScore, err := ai.Resilient(ctx, func(ctx context.Context) (int, error) {
			return m.estimateScore(ctx, record)
		}, func() int {
			return ruleScore
		})
		if err != nil {
			m.logger.Warn("model triage estimate failed, using rule score", "error", err)
		} else if modelScore > score {
			m.logger.Info("model raised triage score", "rule_score", ruleScore, "model_score", modelScore)
			score = modelScore
		}
	}

	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	level := LevelForScore(score)
	return domain.TriageResult{
		Score:                      score,
		Level:                      level,
		RedFlagDetected:            category != "",
		RedFlagCategory:            category,
		RecommendedActions:         recommendedActions(level, category),
		MaxWaitTime:                waitTimeFor(level),
		RequiresImmediateAttention: level == domain.TriageCritical,
	}
}

func (m *ModelScorer) estimateScore(ctx context.Context, record domain.SymptomRecord) (int, error) {
	summary := []string{fmt.Sprintf("Primary symptom: %s", record.PrimarySymptom)}
	if record.Onset != "" {
		summary = append(summary, fmt.Sprintf("Onset: %s", record.Onset))
	}
	if record.Duration != "" {
		summary = append(summary, fmt.Sprintf("Duration: %s", record.Duration))
	}
	if record.Severity != nil {
		summary = append(summary, fmt.Sprintf("Patient-reported severity: %d/10", *record.Severity))
	}
	if len(record.AssociatedSymptoms) > 0 {
		summary = append(summary, fmt.Sprintf("Associated symptoms: %s", strings.Join(record.AssociatedSymptoms, ", ")))
	}

	prompt := fmt.Sprintf(`Estimate the clinical urgency of this case on a 1-10 scale
(1 = routine, 10 = life-threatening).

%s

Output JSON with score and reasoning:
`, strings.Join(summary, "\n"))

	response, err := m.completions.Complete(ctx, triageSystemPrompt, prompt)
	if err != nil {
		return 0, err
	}

	match := triageJSONPattern.FindString(response)
	if match == "" {
		return 0, ai.NewParseError("triage_estimate", "no JSON object in response", nil)
	}

	var parsed struct {
		Score int `json:"score"`
	}
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return 0, ai.NewParseError("triage_estimate", "JSON decode failed", err)
	}
	if parsed.Score < 1 || parsed.Score > 10 {
		return 0, ai.NewParseError("triage_estimate", "score out of range", nil)
	}
	return parsed.Score, nil
}

// File: internal/services/triage/scorer.go
package triage

import (
	"strings"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services"
)

// Scorer assigns urgency to a patient case from symptoms, vitals and
// demographics. Scoring is fully deterministic: the same inputs always
// produce the same result.
type Scorer struct {
	logger services.Logger
}

func NewScorer(logger services.Logger) *Scorer {
	return &Scorer{logger: logger}
}

// combinedText joins the free-text symptom fields used for flag matching.
func combinedText(record domain.SymptomRecord) string {
	parts := []string{
		record.PrimarySymptom,
		record.Character,
		strings.Join(record.AssociatedSymptoms, " "),
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// CalculateScore computes the 1-10 triage score. A red flag short-circuits
// to 10; everything else is additive and clamped.
func (s *Scorer) CalculateScore(record domain.SymptomRecord, vitals *domain.VitalSigns, metadata *domain.PatientMetadata) int {
	text := combinedText(record)

	if category := checkRedFlags(text); category != "" {
		s.logger.Warn("red flag detected", "category", string(category))
		return 10
	}

	score := 0

	if amber := checkAmberFlags(text); amber != "" {
		s.logger.Info("amber flag detected", "category", amber)
		score += 5
	}

	// Severity contributes up to 5 points.
	score += record.SeverityValue() / 2

	onset := strings.ToLower(record.Onset)
	if containsAny(onset, []string{"sudden", "suddenly", "just now", "just started"}) {
		score += 2
	}

	duration := strings.ToLower(record.Duration)
	if containsAny(duration, []string{"days", "week", "weeks", "persistent"}) {
		score++
	}

	if vitals != nil {
		score += scoreVitalSigns(vitals)
	}
	if metadata != nil {
		score += scorePatientMetadata(metadata)
	}

	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	s.logger.Info("calculated triage score", "score", score)
	return score
}

// scoreVitalSigns adds up to 3 points for abnormal measurements.
func scoreVitalSigns(vitals *domain.VitalSigns) int {
	score := 0

	if vitals.Temperature != nil {
		switch {
		case *vitals.Temperature >= 39.5:
			score += 2
		case *vitals.Temperature >= 38.5:
			score++
		case *vitals.Temperature <= 35:
			score += 2
		}
	}

	if vitals.BPSystolic != nil {
		if *vitals.BPSystolic >= 180 || *vitals.BPSystolic <= 90 {
			score += 2
		}
	}

	if vitals.Pulse != nil {
		if *vitals.Pulse >= 120 || *vitals.Pulse <= 50 {
			score++
		}
	}

	if vitals.SpO2 != nil && *vitals.SpO2 < 92 {
		score += 2
	}

	if score > 3 {
		score = 3
	}
	return score
}

var highRiskConditions = []string{"diabetes", "heart disease", "hypertension", "asthma", "copd"}

// scorePatientMetadata adds up to 2 points for age, comorbidities and
// pregnancy.
func scorePatientMetadata(metadata *domain.PatientMetadata) int {
	score := 0

	if metadata.Age != nil {
		age := *metadata.Age
		if age < 1 {
			score += 2
		} else if age < 5 || age > 65 {
			score++
		}
	}

	conditions := strings.ToLower(strings.Join(metadata.ChronicConditions, " "))
	if containsAny(conditions, highRiskConditions) {
		score++
	}

	if metadata.Pregnant {
		score++
	}

	if score > 2 {
		score = 2
	}
	return score
}

// LevelForScore maps a score onto the four-band urgency scale.
func LevelForScore(score int) domain.TriageLevel {
	switch {
	case score >= 9:
		return domain.TriageCritical
	case score >= 6:
		return domain.TriageHigh
	case score >= 3:
		return domain.TriageMedium
	default:
		return domain.TriageLow
	}
}

// Triage runs the complete assessment: score, level, flags, actions and
// wait time.
func (s *Scorer) Triage(record domain.SymptomRecord, vitals *domain.VitalSigns, metadata *domain.PatientMetadata) domain.TriageResult {
	score := s.CalculateScore(record, vitals, metadata)
	level := LevelForScore(score)
	category := checkRedFlags(combinedText(record))

	result := domain.TriageResult{
		Score:                      score,
		Level:                      level,
		RedFlagDetected:            category != "",
		RedFlagCategory:            category,
		RecommendedActions:         recommendedActions(level, category),
		MaxWaitTime:                waitTimeFor(level),
		RequiresImmediateAttention: level == domain.TriageCritical,
	}

	s.logger.Info("triage complete", "level", string(level), "score", score)
	return result
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

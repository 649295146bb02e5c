// File: internal/services/triage/actions.go
package triage

import "github.com/medassist-ng/ai-service/internal/domain"

// recommendedActions returns the per-level guidance for clinic staff, with
// category-specific lines appended for the most time-critical red flags.
func recommendedActions(level domain.TriageLevel, category domain.RedFlagCategory) []string {
	switch level {
	case domain.TriageCritical:
		actions := []string{
			"🚨 IMMEDIATE ATTENTION REQUIRED",
			"Call emergency services or go to ER immediately",
			"Do not wait for appointment",
			"Alert clinical staff immediately",
		}
		switch category {
		case domain.RedFlagCardiac:
			actions = append(actions, "Possible heart attack - call ambulance")
		case domain.RedFlagRespiratory:
			actions = append(actions, "Severe breathing difficulty - immediate intervention needed")
		case domain.RedFlagNeurological:
			actions = append(actions, "Possible stroke - time-critical intervention")
		}
		return actions

	case domain.TriageHigh:
		return []string{
			"⚠️ URGENT: Should be seen within 1 hour",
			"Fast-track for next available appointment",
			"Monitor patient closely while waiting",
			"Notify on-duty clinician",
		}

	case domain.TriageMedium:
		return []string{
			"Semi-urgent: Schedule within 4 hours",
			"Standard appointment booking process",
			"Provide symptom management advice",
			"Monitor for worsening symptoms",
		}

	default:
		return []string{
			"Non-urgent: Can wait up to 24 hours",
			"Schedule regular appointment",
			"Provide self-care guidance",
			"Home monitoring acceptable",
		}
	}
}

// waitTimeFor returns the maximum acceptable wait for each level.
func waitTimeFor(level domain.TriageLevel) string {
	switch level {
	case domain.TriageCritical:
		return "Immediate - 0 minutes"
	case domain.TriageHigh:
		return "Within 1 hour"
	case domain.TriageMedium:
		return "Within 4 hours"
	default:
		return "Within 24 hours"
	}
}

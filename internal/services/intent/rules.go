// File: internal/services/intent/rules.go
package intent

import (
	"strings"

	"github.com/medassist-ng/ai-service/internal/domain"
)

var (
	appointmentKeywords = []string{
		"appointment", "book", "schedule", "reschedule", "cancel",
		"see doctor", "see the doctor", "see a doctor", "wan see doctor",
		"checkup", "visit",
	}
	medicationKeywords = []string{
		"refill", "prescription", "medication", "medicine", "drug", "pills",
	}
	symptomKeywords = []string{
		"pain", "hurt", "sick", "fever", "cough", "headache", "stomach",
		"dey pain", "belle",
	}
	feedbackKeywords = []string{
		"wait", "long wait", "staff", "complaint", "review", "experience",
		"satisfied", "rude", "service", "great", "thank you", "thanks",
		"excellent", "poor", "good", "bad", "terrible", "wonderful",
	}
	questionIndicators = []string{
		"what", "where", "when", "how", "do you", "can you", "are you", "?",
	}
)

// classifyWithRules runs ordered keyword matching. Appointment keywords are
// checked before medication and symptom keywords so "book a visit for my
// cough" stays an appointment request.
func (c *Classifier) classifyWithRules(message string) domain.IntentResult {
	lower := strings.ToLower(message)

	if c.DetectEmergency(lower) {
		return domain.IntentResult{
			Intent:     domain.IntentEmergency,
			Confidence: 0.95,
			Reasoning:  "Emergency keywords detected",
		}
	}

	if containsAny(lower, appointmentKeywords) {
		return domain.IntentResult{
			Intent:     domain.IntentAppointmentBooking,
			Confidence: 0.85,
			Reasoning:  "Appointment-related keywords detected",
		}
	}

	if containsAny(lower, medicationKeywords) {
		return domain.IntentResult{
			Intent:     domain.IntentMedicationRefill,
			Confidence: 0.85,
			Reasoning:  "Medication-related keywords detected",
		}
	}

	if containsAny(lower, symptomKeywords) {
		return domain.IntentResult{
			Intent:     domain.IntentSymptomInquiry,
			Confidence: 0.80,
			Reasoning:  "Symptom-related keywords detected",
		}
	}

	// A question about the service is an inquiry, not feedback.
	if containsAny(lower, feedbackKeywords) && !containsAny(lower, questionIndicators) {
		return domain.IntentResult{
			Intent:     domain.IntentFeedbackComplaint,
			Confidence: 0.75,
			Reasoning:  "Feedback-related keywords detected",
		}
	}

	return domain.IntentResult{
		Intent:     domain.IntentGeneralInquiry,
		Confidence: 0.70,
		Reasoning:  "No specific intent pattern matched",
	}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// File: internal/services/safety/templates.go
package safety

import "github.com/medassist-ng/ai-service/internal/domain"

const standardDisclaimer = "This is an AI triage assistant. Information collected is for " +
	"healthcare professional review only. This is not medical advice, " +
	"diagnosis, or treatment. Always consult qualified medical staff."

const responseDisclaimer = "\n\n*Note: I'm an AI assistant collecting information " +
	"for clinic staff. Not medical advice.*"

const (
	criticalAlternative = "I've noted your symptoms. Based on what you've shared, " +
		"this requires immediate medical attention. Please go to " +
		"the nearest hospital emergency room or call emergency services. " +
		"I cannot provide diagnosis or treatment - only a qualified " +
		"medical professional can do that.\n\n" +
		"**I am not a doctor. This is not medical advice.**"

	prescriptionAlternative = "I cannot recommend or prescribe medications. Only licensed " +
		"medical professionals can prescribe drugs. Please visit the " +
		"clinic so a doctor can properly assess your condition and " +
		"prescribe appropriate treatment if needed.\n\n" +
		"**I am not a doctor. I cannot prescribe medication.**"

	diagnosisAlternative = "I'm here to collect information about your symptoms to help " +
		"prepare for your visit with a medical professional. I cannot " +
		"diagnose medical conditions - that requires examination by " +
		"a qualified doctor. Would you like to schedule an appointment " +
		"or should I continue collecting symptom information?\n\n" +
		"**I am not a doctor. This is not a diagnosis.**"

	defaultAlternative = "I'm an AI assistant designed to help collect symptom information " +
		"for triage purposes only. I cannot provide medical advice, " +
		"diagnosis, or treatment recommendations. Please consult with " +
		"a qualified healthcare professional at the clinic.\n\n" +
		"**I am not a doctor. Please seek professional medical care.**"
)

// safeAlternative picks the replacement text for a suppressed response.
// Critical cases always get the emergency redirection.
func safeAlternative(violations []domain.ViolationType, triageLevel domain.TriageLevel) string {
	if triageLevel == domain.TriageCritical {
		return criticalAlternative
	}

	for _, violation := range violations {
		if violation == domain.ViolationPrescription {
			return prescriptionAlternative
		}
	}
	for _, violation := range violations {
		if violation == domain.ViolationDiagnosis {
			return diagnosisAlternative
		}
	}
	return defaultAlternative
}

// File: internal/domain/intent.go
package domain

// Intent identifies what the patient is trying to accomplish with a message.
type Intent string

const (
	IntentAppointmentBooking Intent = "appointment_booking"
	IntentMedicationRefill   Intent = "medication_refill"
	IntentSymptomInquiry     Intent = "symptom_inquiry"
	IntentFeedbackComplaint  Intent = "feedback_complaint"
	IntentGeneralInquiry     Intent = "general_inquiry"
	IntentEmergency          Intent = "emergency"
)

// AllIntents lists every recognized intent, in no particular order.
var AllIntents = []Intent{
	IntentAppointmentBooking,
	IntentMedicationRefill,
	IntentSymptomInquiry,
	IntentFeedbackComplaint,
	IntentGeneralInquiry,
	IntentEmergency,
}

// ParseIntent converts a raw string (e.g. from a model response) to an Intent.
// Unknown values report ok=false so callers can apply their safe default.
func ParseIntent(s string) (Intent, bool) {
	for _, intent := range AllIntents {
		if string(intent) == s {
			return intent, true
		}
	}
	return IntentGeneralInquiry, false
}

// IntentResult is the outcome of classifying a single message.
type IntentResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Description returns a human-readable explanation of an intent for reports.
func (i Intent) Description() string {
	switch i {
	case IntentAppointmentBooking:
		return "Patient requesting appointment scheduling"
	case IntentMedicationRefill:
		return "Patient requesting prescription refill"
	case IntentSymptomInquiry:
		return "Patient reporting health concerns/symptoms"
	case IntentFeedbackComplaint:
		return "Patient providing feedback or complaint"
	case IntentGeneralInquiry:
		return "General question about services"
	case IntentEmergency:
		return "Emergency medical situation"
	default:
		return "Unknown intent"
	}
}

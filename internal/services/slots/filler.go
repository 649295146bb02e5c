// File: internal/services/slots/filler.go
package slots

import (
	"fmt"
	"strings"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services"
)

// Status of slot filling for an intent.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusComplete   Status = "complete"
)

type slotSpec struct {
	required []string
	optional []string
}

// intentSlots defines which slots each intent needs before the request can
// be actioned. Order of required slots is the order follow-up questions
// are asked in.
var intentSlots = map[domain.Intent]slotSpec{
	domain.IntentAppointmentBooking: {
		required: []string{"date", "time", "reason"},
		optional: []string{"doctor_name", "patient_name", "phone"},
	},
	domain.IntentMedicationRefill: {
		required: []string{"medication_name"},
		optional: []string{"prescription_id", "pharmacy", "quantity"},
	},
	domain.IntentSymptomInquiry: {
		required: []string{"primary_symptom"},
		optional: []string{"duration", "severity", "location"},
	},
	domain.IntentFeedbackComplaint: {
		required: []string{"feedback_text"},
		optional: []string{"rating", "visit_date"},
	},
	domain.IntentGeneralInquiry: {
		required: []string{"question"},
	},
	domain.IntentEmergency: {
		required: []string{"symptoms", "location"},
		optional: []string{"phone"},
	},
}

var slotQuestions = map[string]string{
	"date":            "What date would you like to schedule? (e.g., tomorrow, next Monday, Dec 20)",
	"time":            "What time works best for you? (e.g., morning, afternoon, 2 PM)",
	"reason":          "What is the reason for your visit?",
	"doctor_name":     "Do you have a preferred doctor?",
	"patient_name":    "May I have your full name?",
	"phone":           "What's the best phone number to reach you?",
	"medication_name": "Which medication do you need to refill?",
	"prescription_id": "Do you have your prescription ID or number?",
	"pharmacy":        "Which pharmacy would you like to use?",
	"quantity":        "How much do you need?",
	"primary_symptom": "What symptoms are you experiencing?",
	"duration":        "How long have you had these symptoms?",
	"severity":        "On a scale of 1-10, how severe is it?",
	"location":        "Where exactly do you feel the pain/discomfort?",
	"feedback_text":   "Please share your feedback or complaint.",
	"rating":          "How would you rate your experience? (1-5 stars)",
	"visit_date":      "When was your visit?",
	"question":        "What would you like to know?",
	"symptoms":        "What symptoms are you experiencing right now?",
}

// keywordEntry keeps keyword tables ordered so the first listed match wins.
type keywordEntry struct {
	keyword string
	value   string
}

var dateKeywords = []keywordEntry{
	{"today", "today"},
	{"tomorrow", "tomorrow"},
	{"next week", "next_week"},
	{"monday", "monday"},
	{"tuesday", "tuesday"},
	{"wednesday", "wednesday"},
	{"thursday", "thursday"},
	{"friday", "friday"},
}

var timeKeywords = []keywordEntry{
	{"morning", "morning"},
	{"afternoon", "afternoon"},
	{"evening", "evening"},
	{"10", "10:00 AM"},
	{"11", "11:00 AM"},
	{"2 pm", "2:00 PM"},
	{"3 pm", "3:00 PM"},
	{"4 pm", "4:00 PM"},
}

var reasonKeywords = []keywordEntry{
	{"checkup", "general checkup"},
	{"check up", "general checkup"},
	{"consultation", "consultation"},
	{"follow up", "follow-up visit"},
	{"review", "review"},
	{"test", "testing"},
	{"vaccination", "vaccination"},
	{"vaccine", "vaccination"},
}

var medicationKeywords = []keywordEntry{
	{"bp", "blood pressure medication"},
	{"blood pressure", "blood pressure medication"},
	{"diabetes", "diabetes medication"},
	{"sugar", "diabetes medication"},
	{"pain", "pain medication"},
	{"painkiller", "pain medication"},
	{"antibiotic", "antibiotic"},
}

var symptomKeywords = []keywordEntry{
	{"headache", "headache"},
	{"head", "headache"},
	{"fever", "fever"},
	{"cough", "cough"},
	{"cold", "cold"},
	{"stomach", "stomach pain"},
	{"belly", "stomach pain"},
	{"belle", "stomach pain"},
	{"pain", "pain"},
	{"hurt", "pain"},
	{"sick", "general illness"},
}

var durationKeywords = []keywordEntry{
	{"today", "today"},
	{"yesterday", "since yesterday"},
	{"2 days", "2 days"},
	{"3 days", "3 days"},
	{"week", "about a week"},
	{"days", "several days"},
}

// Filler extracts slot values from messages and drives the follow-up
// question loop for multi-turn conversations.
type Filler struct {
	logger services.Logger
}

func NewFiller(logger services.Logger) *Filler {
	return &Filler{logger: logger}
}

// Extract pulls slot values out of the message for the given intent and
// merges them over the current slots. New values override old ones.
func (f *Filler) Extract(message string, intent domain.Intent, current domain.SlotSet) domain.SlotSet {
	merged := current.Clone()

	lower := strings.ToLower(message)
	extracted := domain.SlotSet{}

	switch intent {
	case domain.IntentAppointmentBooking:
		extractAppointmentSlots(lower, extracted)
	case domain.IntentMedicationRefill:
		extractMedicationSlots(lower, extracted)
	case domain.IntentSymptomInquiry:
		extractSymptomSlots(lower, extracted)
	case domain.IntentFeedbackComplaint:
		extracted["feedback_text"] = message
	case domain.IntentGeneralInquiry:
		extracted["question"] = message
	case domain.IntentEmergency:
		extracted["symptoms"] = message
	}

	for slot, value := range extracted {
		merged[slot] = value
	}

	f.logger.Info("extracted slots", "intent", string(intent), "count", len(extracted))
	return merged
}

func extractAppointmentSlots(message string, slots domain.SlotSet) {
	if value, ok := firstMatch(message, dateKeywords); ok {
		slots["date"] = value
	}
	if value, ok := firstMatch(message, timeKeywords); ok {
		slots["time"] = value
	}
	if value, ok := firstMatch(message, reasonKeywords); ok {
		slots["reason"] = value
	}
}

func extractMedicationSlots(message string, slots domain.SlotSet) {
	if value, ok := firstMatch(message, medicationKeywords); ok {
		slots["medication_name"] = value
		return
	}
	// Short replies to "which medication?" are the name itself.
	if len(strings.Fields(message)) <= 5 {
		slots["medication_name"] = strings.TrimSpace(message)
	}
}

func extractSymptomSlots(message string, slots domain.SlotSet) {
	if value, ok := firstMatch(message, symptomKeywords); ok {
		slots["primary_symptom"] = value
	}
	if value, ok := firstMatch(message, durationKeywords); ok {
		slots["duration"] = value
	}
}

func firstMatch(message string, entries []keywordEntry) (string, bool) {
	for _, entry := range entries {
		if strings.Contains(message, entry.keyword) {
			return entry.value, true
		}
	}
	return "", false
}

// Missing returns the required slots not yet filled, in asking order.
func (f *Filler) Missing(intent domain.Intent, filled domain.SlotSet) []string {
	spec, ok := intentSlots[intent]
	if !ok {
		return nil
	}

	missing := []string{}
	for _, slot := range spec.required {
		if filled[slot] == "" {
			missing = append(missing, slot)
		}
	}
	return missing
}

// NextQuestion returns the follow-up question for the first missing required
// slot, or "" when everything is filled.
func (f *Filler) NextQuestion(intent domain.Intent, filled domain.SlotSet) string {
	missing := f.Missing(intent, filled)
	if len(missing) == 0 {
		return ""
	}

	next := missing[0]
	question, ok := slotQuestions[next]
	if !ok {
		question = fmt.Sprintf("Could you provide information about %s?", strings.ReplaceAll(next, "_", " "))
	}

	f.logger.Info("asking follow-up question", "slot", next)
	return question
}

// IsComplete reports whether every required slot for the intent is filled.
func (f *Filler) IsComplete(intent domain.Intent, filled domain.SlotSet) bool {
	return len(f.Missing(intent, filled)) == 0
}

// GetStatus maps completeness onto a status value.
func (f *Filler) GetStatus(intent domain.Intent, filled domain.SlotSet) Status {
	if f.IsComplete(intent, filled) {
		return StatusComplete
	}
	return StatusIncomplete
}

// FormatConfirmation summarizes the filled slots back to the patient.
func (f *Filler) FormatConfirmation(intent domain.Intent, filled domain.SlotSet) string {
	get := func(slot, fallback string) string {
		if v := filled[slot]; v != "" {
			return v
		}
		return fallback
	}

	switch intent {
	case domain.IntentAppointmentBooking:
		return fmt.Sprintf(
			"Let me confirm: You want to book an appointment on %s at %s for %s. Is that correct?",
			get("date", "N/A"), get("time", "N/A"), get("reason", "N/A"))
	case domain.IntentMedicationRefill:
		return fmt.Sprintf(
			"Let me confirm: You need a refill for %s. Is that correct?",
			get("medication_name", "N/A"))
	case domain.IntentSymptomInquiry:
		return fmt.Sprintf(
			"You mentioned %s for %s. A healthcare provider will review this. Is there anything else?",
			get("primary_symptom", "symptoms"), get("duration", "some time"))
	default:
		return "Is this information correct?"
	}
}

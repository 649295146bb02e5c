// File: internal/services/intent/prompt.go
package intent

import (
	"fmt"
	"strings"

	"github.com/medassist-ng/ai-service/internal/domain"
)

const classifierSystemPrompt = "You are a medical intent classifier. Always respond with valid JSON containing intent, confidence, and reasoning fields."

const classificationExamples = `
Example 1:
Message: "I need to book an appointment for next week"
Output: {"intent": "appointment_booking", "confidence": 0.95, "reasoning": "Patient explicitly requesting appointment scheduling"}

Example 2:
Message: "My chest is hurting and I can't breathe well"
Output: {"intent": "emergency", "confidence": 0.98, "reasoning": "Life-threatening symptoms requiring immediate attention"}

Example 3:
Message: "I wan refill my BP drug"
Output: {"intent": "medication_refill", "confidence": 0.92, "reasoning": "Patient requesting prescription refill (Nigerian Pidgin)"}

Example 4:
Message: "My head dey pain me since morning"
Output: {"intent": "symptom_inquiry", "confidence": 0.94, "reasoning": "Patient reporting health symptom (headache in Pidgin)"}

Example 5:
Message: "The wait time was too long yesterday"
Output: {"intent": "feedback_complaint", "confidence": 0.90, "reasoning": "Patient providing feedback about service experience"}

Example 6:
Message: "What time do you open?"
Output: {"intent": "general_inquiry", "confidence": 0.96, "reasoning": "General question about clinic operations"}
`

// buildClassificationPrompt assembles the few-shot prompt with up to the
// last five turns of conversation for context.
func buildClassificationPrompt(message string, history []domain.ConversationMessage) string {
	var context strings.Builder
	if len(history) > 0 {
		context.WriteString("\n\nConversation History:\n")
		start := 0
		if len(history) > 5 {
			start = len(history) - 5
		}
		for _, msg := range history[start:] {
			fmt.Fprintf(&context, "%s: %s\n", msg.Role, msg.Content)
		}
	}

	return fmt.Sprintf(`You are an AI assistant for a Nigerian healthcare clinic.
Classify the patient's intent from their message.

Possible intents:
1. appointment_booking: Schedule, reschedule, or cancel appointments
2. medication_refill: Request prescription refills or medication renewals
3. symptom_inquiry: Report symptoms, health concerns, or seek medical guidance
4. feedback_complaint: Share reviews, complaints, or feedback about service
5. general_inquiry: Questions about services, hours, location, or general info
6. emergency: Urgent medical situations requiring immediate attention

Consider:
- Nigerian Pidgin English and code-switching
- Context from conversation history
- Urgency indicators
%s
%s
Current Message: "%s"

Output JSON with intent, confidence (0-1), and brief reasoning:
`, classificationExamples, context.String(), message)
}

// File: internal/services/safety/validator.go
package safety

import (
	"strings"
	"time"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services"
)

// Validator checks every outgoing response before it reaches a patient.
// It never blocks the pipeline itself: the result always carries a usable
// ModifiedResponse, whether that is the original text, the text with a
// disclaimer, or a full safe replacement.
type Validator struct {
	audit  *AuditLog
	logger services.Logger
}

func NewValidator(logger services.Logger) *Validator {
	return &Validator{
		audit:  NewAuditLog(),
		logger: logger,
	}
}

// Audit exposes the violation log for the admin surface.
func (v *Validator) Audit() *AuditLog {
	return v.audit
}

// ValidateResponse checks a proposed response against the keyword policies
// and decides the disposition.
func (v *Validator) ValidateResponse(userMessage, response string, intent domain.Intent, triageLevel domain.TriageLevel) domain.SafetyResult {
	responseLower := strings.ToLower(response)

	var violations []domain.ViolationType
	var reasons []string

	if containsAny(responseLower, diagnosisKeywords) {
		violations = append(violations, domain.ViolationDiagnosis)
		reasons = append(reasons, "Response contains diagnostic language")
	}
	if containsAny(responseLower, prescriptionKeywords) {
		violations = append(violations, domain.ViolationPrescription)
		reasons = append(reasons, "Response suggests medication")
	}
	if containsAny(responseLower, dangerousKeywords) {
		violations = append(violations, domain.ViolationDangerousAdvice)
		reasons = append(reasons, "Response discourages seeking medical care")
	}
	if !withinScope(responseLower) {
		violations = append(violations, domain.ViolationScopeExceeded)
		reasons = append(reasons, "Response exceeds triage/intake scope")
	}

	if len(violations) > 0 {
		action := determineAction(violations, triageLevel)
		v.audit.Record(userMessage, response, violations, action)
		v.logger.Warn("safety violation detected",
			"violations", violationNames(violations),
			"action", string(action))

		switch action {
		case domain.SafetyBlock, domain.SafetyEscalate:
			return domain.SafetyResult{
				IsSafe:           false,
				Violations:       violations,
				Action:           action,
				ModifiedResponse: safeAlternative(violations, triageLevel),
				Disclaimer:       standardDisclaimer,
				Reasoning:        strings.Join(reasons, " | "),
				Timestamp:        time.Now().UTC(),
			}
		default:
			return domain.SafetyResult{
				IsSafe:           true,
				Violations:       violations,
				Action:           domain.SafetyWarn,
				ModifiedResponse: addDisclaimer(response),
				Disclaimer:       standardDisclaimer,
				Reasoning:        strings.Join(reasons, " | "),
				Timestamp:        time.Now().UTC(),
			}
		}
	}

	return domain.SafetyResult{
		IsSafe:           true,
		Violations:       nil,
		Action:           domain.SafetyLog,
		ModifiedResponse: addDisclaimer(response),
		Disclaimer:       standardDisclaimer,
		Reasoning:        "Response passed all safety checks",
		Timestamp:        time.Now().UTC(),
	}
}

// withinScope accepts responses that carry an appropriate-scope phrase, or
// short questions, which are how the intake loop talks.
func withinScope(text string) bool {
	if containsAny(text, appropriatePhrases) {
		return true
	}
	if containsAny(text, questionMarkers) && len(strings.Fields(text)) < 30 {
		return true
	}
	return false
}

// determineAction maps violations onto a disposition. Prescription, dangerous
// advice and diagnosis always suppress the response; a diagnosis attempt on a
// critical case is escalated for human review instead.
func determineAction(violations []domain.ViolationType, triageLevel domain.TriageLevel) domain.SafetyAction {
	critical := false
	diagnosis := false
	for _, violation := range violations {
		switch violation {
		case domain.ViolationPrescription, domain.ViolationDangerousAdvice:
			critical = true
		case domain.ViolationDiagnosis:
			critical = true
			diagnosis = true
		}
	}

	if critical {
		if diagnosis && triageLevel == domain.TriageCritical {
			return domain.SafetyEscalate
		}
		return domain.SafetyBlock
	}

	return domain.SafetyWarn
}

// addDisclaimer appends the transparency note unless the response already
// carries one.
func addDisclaimer(response string) string {
	if strings.Contains(strings.ToLower(response), "not a doctor") {
		return response
	}
	return response + responseDisclaimer
}

func violationNames(violations []domain.ViolationType) string {
	names := make([]string, len(violations))
	for i, v := range violations {
		names[i] = string(v)
	}
	return strings.Join(names, ",")
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// File: internal/domain/safety.go
package domain

import "time"

// ViolationType tags a way a generated response can exceed its permitted scope.
type ViolationType string

const (
	ViolationMedicalAdvice        ViolationType = "medical_advice"
	ViolationDiagnosis            ViolationType = "diagnosis"
	ViolationPrescription         ViolationType = "prescription"
	ViolationDangerousAdvice      ViolationType = "dangerous_advice"
	ViolationInappropriateContent ViolationType = "inappropriate_content"
	ViolationPrivacy              ViolationType = "privacy_violation"
	ViolationScopeExceeded        ViolationType = "scope_exceeded"
)

// SafetyAction is the disposition chosen for a validated response.
type SafetyAction string

const (
	SafetyBlock    SafetyAction = "block"    // suppress entirely, send a safe alternative
	SafetyWarn     SafetyAction = "warn"     // allow with disclaimer
	SafetyEscalate SafetyAction = "escalate" // surface for human review
	SafetyLog      SafetyAction = "log"      // allow, record only
)

// SafetyResult is the value object produced by every validation call.
// ModifiedResponse is always populated: either the original text, the text with
// a disclaimer appended, or a full replacement when the action is block.
type SafetyResult struct {
	IsSafe           bool            `json:"is_safe"`
	Violations       []ViolationType `json:"violations"`
	Action           SafetyAction    `json:"action"`
	ModifiedResponse string          `json:"modified_response"`
	Disclaimer       string          `json:"disclaimer"`
	Reasoning        string          `json:"reasoning"`
	Timestamp        time.Time       `json:"timestamp"`
}

// HasViolation reports whether v appears in the result's violation list.
func (r SafetyResult) HasViolation(v ViolationType) bool {
	for _, got := range r.Violations {
		if got == v {
			return true
		}
	}
	return false
}

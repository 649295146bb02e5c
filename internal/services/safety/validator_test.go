// File: internal/services/safety/validator_test.go
package safety

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services"
	"github.com/medassist-ng/ai-service/internal/services/ai"
)

func newTestValidator() *Validator {
	return NewValidator(&services.NoOpLogger{})
}

func TestPrescriptionResponseBlocked(t *testing.T) {
	v := newTestValidator()

	result := v.ValidateResponse(
		"I have a headache, what should I take?",
		"Take paracetamol 500mg three times daily after meals.",
		domain.IntentSymptomInquiry, domain.TriageLow)

	if result.IsSafe {
		t.Error("prescription response marked safe")
	}
	if result.Action != domain.SafetyBlock {
		t.Errorf("action = %s, want block", result.Action)
	}
	if !result.HasViolation(domain.ViolationPrescription) {
		t.Error("prescription violation not recorded")
	}
	if result.ModifiedResponse != prescriptionAlternative {
		t.Errorf("modified response = %q, want prescription alternative", result.ModifiedResponse)
	}
}

func TestDiagnosisResponseBlocked(t *testing.T) {
	v := newTestValidator()

	result := v.ValidateResponse(
		"I've had fever and chills for days",
		"Based on your symptoms, you have malaria. It is very common here.",
		domain.IntentSymptomInquiry, domain.TriageMedium)

	if result.Action != domain.SafetyBlock {
		t.Errorf("action = %s, want block", result.Action)
	}
	if !result.HasViolation(domain.ViolationDiagnosis) {
		t.Error("diagnosis violation not recorded")
	}
	if result.ModifiedResponse != diagnosisAlternative {
		t.Error("expected diagnosis alternative response")
	}
}

func TestDangerousAdviceBlocked(t *testing.T) {
	v := newTestValidator()

	result := v.ValidateResponse(
		"my chest dey pain me",
		"It will pass, no go hospital, just rest small.",
		domain.IntentSymptomInquiry, domain.TriageLow)

	if result.Action != domain.SafetyBlock {
		t.Errorf("action = %s, want block", result.Action)
	}
	if !result.HasViolation(domain.ViolationDangerousAdvice) {
		t.Error("dangerous advice violation not recorded")
	}
}

func TestDiagnosisOnCriticalCaseEscalates(t *testing.T) {
	v := newTestValidator()

	result := v.ValidateResponse(
		"crushing chest pain",
		"You have stroke symptoms, this looks serious.",
		domain.IntentEmergency, domain.TriageCritical)

	if result.Action != domain.SafetyEscalate {
		t.Errorf("action = %s, want escalate", result.Action)
	}
	if result.ModifiedResponse != criticalAlternative {
		t.Error("expected critical alternative response")
	}
}

func TestScopeExceededWarns(t *testing.T) {
	v := newTestValidator()

	// Long statement, no question, no appropriate-scope phrasing.
	long := strings.Repeat("this is a long explanation about general wellness and lifestyle habits ", 5)
	result := v.ValidateResponse("tell me about health", long, domain.IntentGeneralInquiry, domain.TriageLow)

	if !result.IsSafe {
		t.Error("scope-only violation should remain safe")
	}
	if result.Action != domain.SafetyWarn {
		t.Errorf("action = %s, want warn", result.Action)
	}
	if !result.HasViolation(domain.ViolationScopeExceeded) {
		t.Error("scope violation not recorded")
	}
	if !strings.Contains(result.ModifiedResponse, "Not medical advice") {
		t.Error("warned response missing disclaimer")
	}
}

func TestCleanResponseGetsDisclaimerOnce(t *testing.T) {
	v := newTestValidator()

	response := "When did the headache start?"
	result := v.ValidateResponse("my head dey pain me", response, domain.IntentSymptomInquiry, domain.TriageLow)

	if result.Action != domain.SafetyLog {
		t.Errorf("action = %s, want log", result.Action)
	}
	if !strings.HasPrefix(result.ModifiedResponse, response) {
		t.Error("original response should be preserved")
	}
	if strings.Count(result.ModifiedResponse, "Not medical advice") != 1 {
		t.Error("disclaimer should appear exactly once")
	}

	// Re-validating the already-disclaimed text must not stack disclaimers.
	again := v.ValidateResponse("ok", "I'm not a doctor, but I can collect your symptoms. When did it start?", domain.IntentSymptomInquiry, domain.TriageLow)
	if strings.Contains(again.ModifiedResponse, "Not medical advice") {
		t.Error("second disclaimer added to response that already had one")
	}
}

func TestWithinScope(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"i'm collecting information for the doctor to review", true},
		{"where exactly do you feel the pain?", true},
		{"you should definitely change your entire lifestyle immediately and also " +
			"consider many different supplements and alternative remedies that people " +
			"recommend online for this kind of general situation in most cases overall", false},
	}

	for _, tt := range tests {
		if got := withinScope(tt.text); got != tt.want {
			t.Errorf("withinScope(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestAuditLogRecordsAndAggregates(t *testing.T) {
	v := newTestValidator()

	v.ValidateResponse("q1", "take paracetamol 500mg now", domain.IntentSymptomInquiry, domain.TriageLow)
	v.ValidateResponse("q2", "you have malaria for sure", domain.IntentSymptomInquiry, domain.TriageLow)

	stats := v.Audit().Stats()
	if stats.TotalViolations != 2 {
		t.Fatalf("total = %d, want 2", stats.TotalViolations)
	}
	if stats.ByType["prescription"] != 1 || stats.ByType["diagnosis"] != 1 {
		t.Errorf("by_type = %v", stats.ByType)
	}
	if stats.ByAction["block"] != 2 {
		t.Errorf("by_action = %v", stats.ByAction)
	}

	v.Audit().Clear()
	if v.Audit().Stats().TotalViolations != 0 {
		t.Error("stats not empty after clear")
	}
}

func TestAuditLogTruncatesText(t *testing.T) {
	v := newTestValidator()

	long := strings.Repeat("a", 500)
	v.Audit().Record(long, long, []domain.ViolationType{domain.ViolationDiagnosis}, domain.SafetyBlock)

	entries := v.Audit().Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if len(entries[0].UserMessage) != maxLoggedChars || len(entries[0].Response) != maxLoggedChars {
		t.Errorf("entry not truncated to %d chars", maxLoggedChars)
	}
}

type stubCompletions struct {
	response string
	err      error
}

func (s *stubCompletions) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.response, s.err
}

func (s *stubCompletions) GetProviderStatus() ai.ProviderStatus {
	return ai.ProviderStatus{IsHealthy: s.err == nil}
}

func TestModelValidatorFlagsCleanResponse(t *testing.T) {
	m := NewModelValidator(newTestValidator(), &stubCompletions{response: `{"flagged": true, "reason": "implied treatment advice"}`})

	result := m.ValidateResponseWithModel(context.Background(),
		"my head hurts", "When did the pain start?", domain.IntentSymptomInquiry, domain.TriageLow)

	if result.Action != domain.SafetyWarn {
		t.Errorf("action = %s, want warn after model flag", result.Action)
	}
	if !result.HasViolation(domain.ViolationMedicalAdvice) {
		t.Error("medical advice violation not added")
	}
}

func TestModelValidatorCannotClearRuleVerdict(t *testing.T) {
	m := NewModelValidator(newTestValidator(), &stubCompletions{response: `{"flagged": false, "reason": "fine"}`})

	result := m.ValidateResponseWithModel(context.Background(),
		"what should I take?", "take paracetamol 500mg daily", domain.IntentSymptomInquiry, domain.TriageLow)

	if result.Action != domain.SafetyBlock {
		t.Errorf("action = %s, want block preserved", result.Action)
	}
}

func TestModelValidatorFailureKeepsRuleVerdict(t *testing.T) {
	m := NewModelValidator(newTestValidator(), &stubCompletions{err: errors.New("provider down")})

	result := m.ValidateResponseWithModel(context.Background(),
		"my head hurts", "When did the pain start?", domain.IntentSymptomInquiry, domain.TriageLow)

	if result.Action != domain.SafetyLog {
		t.Errorf("action = %s, want log", result.Action)
	}
}

// File: internal/services/triage/scorer_test.go
package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services"
	"github.com/medassist-ng/ai-service/internal/services/ai"
)

func newTestScorer() *Scorer {
	return NewScorer(&services.NoOpLogger{})
}

func TestRedFlagForcesMaximumScore(t *testing.T) {
	s := newTestScorer()

	tests := []struct {
		record   domain.SymptomRecord
		category domain.RedFlagCategory
	}{
		{domain.SymptomRecord{PrimarySymptom: "chest pain"}, domain.RedFlagCardiac},
		{domain.SymptomRecord{PrimarySymptom: "i no fit breathe"}, domain.RedFlagRespiratory},
		{domain.SymptomRecord{PrimarySymptom: "seizure"}, domain.RedFlagNeurological},
		{domain.SymptomRecord{PrimarySymptom: "vomiting blood"}, domain.RedFlagBleeding},
		{domain.SymptomRecord{PrimarySymptom: "gunshot"}, domain.RedFlagTrauma},
		{domain.SymptomRecord{PrimarySymptom: "suicidal thoughts"}, domain.RedFlagMentalHealth},
		{domain.SymptomRecord{PrimarySymptom: "pikin no fit breathe"}, domain.RedFlagPediatric},
		{domain.SymptomRecord{PrimarySymptom: "baby not moving"}, domain.RedFlagObstetric},
	}

	for _, tt := range tests {
		score := s.CalculateScore(tt.record, nil, nil)
		if score != 10 {
			t.Errorf("score for %q = %d, want 10", tt.record.PrimarySymptom, score)
		}

		result := s.Triage(tt.record, nil, nil)
		if !result.RedFlagDetected || result.RedFlagCategory != tt.category {
			t.Errorf("red flag for %q = %v/%s, want true/%s",
				tt.record.PrimarySymptom, result.RedFlagDetected, result.RedFlagCategory, tt.category)
		}
		if result.Level != domain.TriageCritical || !result.RequiresImmediateAttention {
			t.Errorf("level for %q = %s, want critical", tt.record.PrimarySymptom, result.Level)
		}
	}
}

func TestRedFlagInCharacterOrAssociatedSymptoms(t *testing.T) {
	s := newTestScorer()

	record := domain.SymptomRecord{
		PrimarySymptom: "headache",
		Character:      "crushing pain",
	}
	if score := s.CalculateScore(record, nil, nil); score != 10 {
		t.Errorf("score = %d, want 10 for red flag in character", score)
	}

	record = domain.SymptomRecord{
		PrimarySymptom:     "fever",
		AssociatedSymptoms: []string{"slurred speech"},
	}
	result := s.Triage(record, nil, nil)
	if result.Score != 10 || result.RedFlagCategory != domain.RedFlagNeurological {
		t.Errorf("result = %d/%s, want 10/neurological", result.Score, result.RedFlagCategory)
	}
}

func TestAmberFlagAddsFive(t *testing.T) {
	s := newTestScorer()

	record := domain.SymptomRecord{PrimarySymptom: "high fever"}
	if score := s.CalculateScore(record, nil, nil); score != 5 {
		t.Errorf("score = %d, want 5 for amber flag alone", score)
	}
}

func TestSeverityContribution(t *testing.T) {
	s := newTestScorer()

	record := domain.SymptomRecord{PrimarySymptom: "mild rash", Severity: domain.IntPtr(7)}
	if score := s.CalculateScore(record, nil, nil); score != 3 {
		t.Errorf("score = %d, want floor(7*0.5) = 3", score)
	}

	record.Severity = domain.IntPtr(10)
	if score := s.CalculateScore(record, nil, nil); score != 5 {
		t.Errorf("score = %d, want 5", score)
	}
}

func TestOnsetAndDurationContribution(t *testing.T) {
	s := newTestScorer()

	record := domain.SymptomRecord{
		PrimarySymptom: "mild rash",
		Onset:          "suddenly",
		Duration:       "3 days",
	}
	// sudden onset +2, persistence +1, clamp floor does not apply
	if score := s.CalculateScore(record, nil, nil); score != 3 {
		t.Errorf("score = %d, want 3", score)
	}
}

func TestMinimumScoreIsOne(t *testing.T) {
	s := newTestScorer()

	record := domain.SymptomRecord{PrimarySymptom: "mild rash"}
	if score := s.CalculateScore(record, nil, nil); score != 1 {
		t.Errorf("score = %d, want clamp to 1", score)
	}
}

func TestVitalSignsCap(t *testing.T) {
	s := newTestScorer()

	// Every vital abnormal: 2+2+1+2 = 7 raw, capped at 3.
	vitals := &domain.VitalSigns{
		Temperature: float64Ptr(40.0),
		BPSystolic:  domain.IntPtr(190),
		Pulse:       domain.IntPtr(130),
		SpO2:        domain.IntPtr(88),
	}
	record := domain.SymptomRecord{PrimarySymptom: "mild rash"}
	if score := s.CalculateScore(record, vitals, nil); score != 3 {
		t.Errorf("score = %d, want 3 (vitals capped)", score)
	}
}

func TestVitalSignThresholds(t *testing.T) {
	tests := []struct {
		name   string
		vitals domain.VitalSigns
		want   int
	}{
		{"high fever", domain.VitalSigns{Temperature: float64Ptr(39.5)}, 2},
		{"moderate fever", domain.VitalSigns{Temperature: float64Ptr(38.5)}, 1},
		{"hypothermia", domain.VitalSigns{Temperature: float64Ptr(34.5)}, 2},
		{"normal temp", domain.VitalSigns{Temperature: float64Ptr(37.0)}, 0},
		{"hypertensive crisis", domain.VitalSigns{BPSystolic: domain.IntPtr(180)}, 2},
		{"hypotension", domain.VitalSigns{BPSystolic: domain.IntPtr(90)}, 2},
		{"normal bp", domain.VitalSigns{BPSystolic: domain.IntPtr(120)}, 0},
		{"tachycardia", domain.VitalSigns{Pulse: domain.IntPtr(120)}, 1},
		{"bradycardia", domain.VitalSigns{Pulse: domain.IntPtr(50)}, 1},
		{"low spo2", domain.VitalSigns{SpO2: domain.IntPtr(91)}, 2},
		{"normal spo2", domain.VitalSigns{SpO2: domain.IntPtr(97)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreVitalSigns(&tt.vitals); got != tt.want {
				t.Errorf("scoreVitalSigns = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPatientMetadataScoring(t *testing.T) {
	tests := []struct {
		name     string
		metadata domain.PatientMetadata
		want     int
	}{
		{"infant", domain.PatientMetadata{Age: domain.IntPtr(0)}, 2},
		{"young child", domain.PatientMetadata{Age: domain.IntPtr(4)}, 1},
		{"elderly", domain.PatientMetadata{Age: domain.IntPtr(70)}, 1},
		{"adult", domain.PatientMetadata{Age: domain.IntPtr(30)}, 0},
		{"chronic condition", domain.PatientMetadata{ChronicConditions: []string{"Diabetes"}}, 1},
		{"pregnancy", domain.PatientMetadata{Pregnant: true}, 1},
		{"everything capped", domain.PatientMetadata{
			Age:               domain.IntPtr(0),
			ChronicConditions: []string{"asthma"},
			Pregnant:          true,
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorePatientMetadata(&tt.metadata); got != tt.want {
				t.Errorf("scorePatientMetadata = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  domain.TriageLevel
	}{
		{10, domain.TriageCritical},
		{9, domain.TriageCritical},
		{8, domain.TriageHigh},
		{6, domain.TriageHigh},
		{5, domain.TriageMedium},
		{3, domain.TriageMedium},
		{2, domain.TriageLow},
		{1, domain.TriageLow},
	}

	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestTriageChestPainScenario(t *testing.T) {
	s := newTestScorer()

	record := domain.SymptomRecord{
		PrimarySymptom: "chest pain",
		Character:      "crushing",
		Severity:       domain.IntPtr(9),
	}

	result := s.Triage(record, nil, nil)
	if result.Score != 10 {
		t.Errorf("score = %d, want 10", result.Score)
	}
	if result.Level != domain.TriageCritical {
		t.Errorf("level = %s, want critical", result.Level)
	}
	if result.RedFlagCategory != domain.RedFlagCardiac {
		t.Errorf("category = %s, want cardiac", result.RedFlagCategory)
	}
	if result.MaxWaitTime != "Immediate - 0 minutes" {
		t.Errorf("wait time = %q", result.MaxWaitTime)
	}

	foundCardiacAction := false
	for _, action := range result.RecommendedActions {
		if action == "Possible heart attack - call ambulance" {
			foundCardiacAction = true
		}
	}
	if !foundCardiacAction {
		t.Error("cardiac-specific action missing from recommendations")
	}
}

func TestTriageWaitTimes(t *testing.T) {
	s := newTestScorer()

	record := domain.SymptomRecord{PrimarySymptom: "mild rash"}
	result := s.Triage(record, nil, nil)
	if result.Level != domain.TriageLow || result.MaxWaitTime != "Within 24 hours" {
		t.Errorf("result = %s/%q, want low/Within 24 hours", result.Level, result.MaxWaitTime)
	}

	record = domain.SymptomRecord{PrimarySymptom: "high fever", Severity: domain.IntPtr(4)}
	result = s.Triage(record, nil, nil)
	// amber +5, severity +2 = 7 → high
	if result.Level != domain.TriageHigh || result.MaxWaitTime != "Within 1 hour" {
		t.Errorf("result = %s/%q, want high/Within 1 hour", result.Level, result.MaxWaitTime)
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

func TestModelScorerRaisesButNeverLowers(t *testing.T) {
	rule := newTestScorer()
	record := domain.SymptomRecord{PrimarySymptom: "high fever", Severity: domain.IntPtr(4)} // rule score 7

	// Model says 9: raised.
	m := NewModelScorer(rule, &stubCompletions{response: `{"score": 9, "reasoning": "risk of sepsis"}`})
	result := m.TriageWithModel(context.Background(), record, nil, nil)
	if result.Score != 9 || result.Level != domain.TriageCritical {
		t.Errorf("result = %d/%s, want 9/critical", result.Score, result.Level)
	}

	// Model says 2: rule score kept.
	m = NewModelScorer(rule, &stubCompletions{response: `{"score": 2, "reasoning": "looks mild"}`})
	result = m.TriageWithModel(context.Background(), record, nil, nil)
	if result.Score != 7 {
		t.Errorf("score = %d, want rule score 7", result.Score)
	}
}

func TestModelScorerFailureFallsBackToRules(t *testing.T) {
	rule := newTestScorer()
	record := domain.SymptomRecord{PrimarySymptom: "high fever", Severity: domain.IntPtr(4)}

	m := NewModelScorer(rule, &stubCompletions{err: errors.New("provider down")})
	result := m.TriageWithModel(context.Background(), record, nil, nil)
	if result.Score != 7 {
		t.Errorf("score = %d, want rule score 7", result.Score)
	}
}

func TestModelScorerRedFlagSkipsModel(t *testing.T) {
	rule := newTestScorer()
	record := domain.SymptomRecord{PrimarySymptom: "chest pain"}

	m := NewModelScorer(rule, &stubCompletions{response: `{"score": 3, "reasoning": "probably muscular"}`})
	result := m.TriageWithModel(context.Background(), record, nil, nil)
	if result.Score != 10 || result.RedFlagCategory != domain.RedFlagCardiac {
		t.Errorf("result = %d/%s, want 10/cardiac regardless of model", result.Score, result.RedFlagCategory)
	}
}

func float64Ptr(v float64) *float64 { return &v }

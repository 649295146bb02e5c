// File: internal/services/report/generator.go
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services"
)

const reportVersion = "1.0"

const safetyDisclaimer = "This is an AI-assisted triage report. All information must be " +
	"verified by qualified medical personnel."

// IntentSection describes the classified intent in the report.
type IntentSection struct {
	Type        domain.Intent `json:"type"`
	Description string        `json:"description"`
}

// ConversationSection carries the tail of the conversation for context.
type ConversationSection struct {
	MessageCount int                          `json:"message_count"`
	History      []domain.ConversationMessage `json:"history"`
}

// SafetySection records any guardrail findings for the encounter.
type SafetySection struct {
	IssuesDetected bool     `json:"issues_detected"`
	Issues         []string `json:"issues"`
	Disclaimer     string   `json:"disclaimer"`
}

// Summaries holds the two rendered summaries of the encounter.
type Summaries struct {
	Clinician string `json:"clinician"`
	Patient   string `json:"patient"`
}

// Report is the full structured intake report for one encounter.
type Report struct {
	ReportID        string                  `json:"report_id"`
	PatientID       string                  `json:"patient_id"`
	GeneratedAt     time.Time               `json:"generated_at"`
	Version         string                  `json:"report_version"`
	Intent          IntentSection           `json:"intent"`
	Triage          *domain.TriageResult    `json:"triage"`
	Symptoms        domain.SymptomRecord    `json:"symptoms"`
	VitalSigns      *domain.VitalSigns      `json:"vital_signs,omitempty"`
	PatientMetadata *domain.PatientMetadata `json:"patient_metadata,omitempty"`
	Conversation    ConversationSection     `json:"conversation"`
	Safety          SafetySection           `json:"safety"`
	Summaries       Summaries               `json:"summaries"`
}

// MinimalReport is the lightweight record for non-symptom intents.
type MinimalReport struct {
	ReportID                 string        `json:"report_id"`
	PatientID                string        `json:"patient_id"`
	GeneratedAt              time.Time     `json:"generated_at"`
	Version                  string        `json:"report_version"`
	Intent                   IntentSection `json:"intent"`
	Message                  string        `json:"message"`
	RequiresMedicalAttention bool          `json:"requires_medical_attention"`
}

// EHRRecord is the flattened export for electronic health record systems.
type EHRRecord struct {
	PatientID      string               `json:"patient_id"`
	EncounterDate  time.Time            `json:"encounter_date"`
	ChiefComplaint string               `json:"chief_complaint"`
	TriageLevel    domain.TriageLevel   `json:"triage_level"`
	TriageScore    int                  `json:"triage_score"`
	RedFlag        bool                 `json:"red_flag"`
	VitalSigns     *domain.VitalSigns   `json:"vital_signs,omitempty"`
	Symptoms       domain.SymptomRecord `json:"symptoms"`
	Assessment     string               `json:"assessment"`
	Urgent         bool                 `json:"urgent"`
}

// Input bundles everything a full report is built from.
type Input struct {
	PatientID    string
	Intent       domain.Intent
	Symptoms     domain.SymptomRecord
	Triage       domain.TriageResult
	VitalSigns   *domain.VitalSigns
	Metadata     *domain.PatientMetadata
	History      []domain.ConversationMessage
	SafetyIssues []string
}

// Generator renders intake reports for clinicians, patients and EHR export.
type Generator struct {
	logger services.Logger
	now    func() time.Time
}

func NewGenerator(logger services.Logger) *Generator {
	return &Generator{logger: logger, now: time.Now}
}

func (g *Generator) newReportID(patientID string) string {
	return fmt.Sprintf("RPT-%s-%s", patientID, uuid.NewString())
}

// Generate builds the complete structured report.
func (g *Generator) Generate(input Input) Report {
	history := input.History
	if len(history) > 10 {
		history = history[len(history)-10:]
	}

	report := Report{
		ReportID:    g.newReportID(input.PatientID),
		PatientID:   input.PatientID,
		GeneratedAt: g.now().UTC(),
		Version:     reportVersion,
		Intent: IntentSection{
			Type:        input.Intent,
			Description: input.Intent.Description(),
		},
		Triage:          &input.Triage,
		Symptoms:        input.Symptoms,
		VitalSigns:      input.VitalSigns,
		PatientMetadata: input.Metadata,
		Conversation: ConversationSection{
			MessageCount: len(input.History),
			History:      history,
		},
		Safety: SafetySection{
			IssuesDetected: len(input.SafetyIssues) > 0,
			Issues:         input.SafetyIssues,
			Disclaimer:     safetyDisclaimer,
		},
		Summaries: Summaries{
			Clinician: clinicianSummary(input),
			Patient:   patientSummary(input.Triage),
		},
	}

	g.logger.Info("generated report",
		"report_id", report.ReportID,
		"patient_id", input.PatientID,
		"triage_level", string(input.Triage.Level),
		"red_flag", input.Triage.RedFlagDetected)
	return report
}

// GenerateMinimal builds the short record used for appointment bookings,
// refills and general inquiries.
func (g *Generator) GenerateMinimal(patientID string, intent domain.Intent, message string) MinimalReport {
	return MinimalReport{
		ReportID:    g.newReportID(patientID),
		PatientID:   patientID,
		GeneratedAt: g.now().UTC(),
		Version:     reportVersion,
		Intent: IntentSection{
			Type:        intent,
			Description: intent.Description(),
		},
		Message:                  message,
		RequiresMedicalAttention: false,
	}
}

// ExportJSON renders a report as indented JSON.
func (g *Generator) ExportJSON(report Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}
	return string(data), nil
}

// ExportEHR flattens a report into the EHR integration shape.
func (g *Generator) ExportEHR(report Report) EHRRecord {
	record := EHRRecord{
		PatientID:      report.PatientID,
		EncounterDate:  report.GeneratedAt,
		ChiefComplaint: report.Symptoms.PrimarySymptom,
		VitalSigns:     report.VitalSigns,
		Symptoms:       report.Symptoms,
		Assessment:     report.Summaries.Clinician,
	}
	if report.Triage != nil {
		record.TriageLevel = report.Triage.Level
		record.TriageScore = report.Triage.Score
		record.RedFlag = report.Triage.RedFlagDetected
		record.Urgent = report.Triage.RequiresImmediateAttention
	}
	return record
}

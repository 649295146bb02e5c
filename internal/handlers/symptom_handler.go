// File: internal/handlers/symptom_handler.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"

	"github.com/medassist-ng/ai-service/internal/domain"
	reportrepo "github.com/medassist-ng/ai-service/internal/repository/report"
	"github.com/medassist-ng/ai-service/internal/services/intake"
	"github.com/medassist-ng/ai-service/internal/services/report"
	"github.com/medassist-ng/ai-service/internal/services/triage"
)

// SymptomHandler generates and persists structured triage reports from
// collected symptom data.
type SymptomHandler struct {
	intake    *intake.Extractor
	scorer    *triage.Scorer
	generator *report.Generator
	reports   reportrepo.ReportRepository
	markdown  goldmark.Markdown
}

func NewSymptomHandler(intakeExtractor *intake.Extractor, scorer *triage.Scorer, generator *report.Generator, reports reportrepo.ReportRepository) *SymptomHandler {
	return &SymptomHandler{
		intake:    intakeExtractor,
		scorer:    scorer,
		generator: generator,
		reports:   reports,
		markdown:  goldmark.New(),
	}
}

type symptomReportRequest struct {
	PatientID        string                  `json:"patient_id"`
	ConversationData domain.SymptomRecord    `json:"conversation_data"`
	VitalSigns       *domain.VitalSigns      `json:"vital_signs,omitempty"`
	PatientMetadata  *domain.PatientMetadata `json:"patient_metadata,omitempty"`
}

type symptomReportResponse struct {
	ReportID                   string             `json:"report_id"`
	PatientID                  string             `json:"patient_id"`
	StructuredReport           report.Report      `json:"structured_report"`
	HumanSummary               string             `json:"human_summary"`
	ClinicianSummaryHTML       string             `json:"clinician_summary_html"`
	TriageLevel                domain.TriageLevel `json:"triage_level"`
	UrgencyScore               int                `json:"urgency_score"`
	RedFlags                   []string           `json:"red_flags"`
	RecommendedAction          string             `json:"recommended_action"`
	RequiresImmediateAttention bool               `json:"requires_immediate_attention"`
	DataComplete               bool               `json:"data_complete"`
	MissingFields              []string           `json:"missing_fields,omitempty"`
	Timestamp                  time.Time          `json:"timestamp"`
}

// GenerateReport handles POST /api/v1/symptom/report.
func (h *SymptomHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req symptomReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.PatientID = strings.TrimSpace(req.PatientID)
	if req.PatientID == "" {
		writeError(w, "patient_id is required", http.StatusBadRequest)
		return
	}

	missingFields := h.intake.MissingFields(req.ConversationData)
	dataComplete := len(missingFields) == 0
	if !dataComplete {
		// Incomplete data still produces a report, flagged for review.
		log.Printf("[SymptomHandler] Incomplete symptom data for patient %s, missing: %v",
			req.PatientID, missingFields)
	}

	triageResult := h.scorer.Triage(req.ConversationData, req.VitalSigns, req.PatientMetadata)

	redFlags := []string{}
	if triageResult.RedFlagDetected && triageResult.RedFlagCategory != "" {
		redFlags = append(redFlags, string(triageResult.RedFlagCategory))
	}

	structured := h.generator.Generate(report.Input{
		PatientID:    req.PatientID,
		Intent:       domain.IntentSymptomInquiry,
		Symptoms:     req.ConversationData,
		Triage:       triageResult,
		VitalSigns:   req.VitalSigns,
		Metadata:     req.PatientMetadata,
		SafetyIssues: redFlags,
	})

	payload, err := h.generator.ExportJSON(structured)
	if err != nil {
		log.Printf("[SymptomHandler] Failed to serialize report for patient %s: %v", req.PatientID, err)
		writeError(w, "Failed to generate symptom report", http.StatusInternalServerError)
		return
	}

	stored := &domain.TriageReport{
		ReportID:         structured.ReportID,
		PatientID:        req.PatientID,
		Intent:           string(domain.IntentSymptomInquiry),
		TriageLevel:      string(triageResult.Level),
		TriageScore:      triageResult.Score,
		RedFlag:          triageResult.RedFlagDetected,
		RedFlagCategory:  string(triageResult.RedFlagCategory),
		ClinicianSummary: structured.Summaries.Clinician,
		PatientSummary:   structured.Summaries.Patient,
		Payload:          payload,
	}
	if _, err := h.reports.Create(r.Context(), stored); err != nil {
		log.Printf("[SymptomHandler] Failed to persist report %s: %v", structured.ReportID, err)
		writeError(w, "Failed to store symptom report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, symptomReportResponse{
		ReportID:                   structured.ReportID,
		PatientID:                  req.PatientID,
		StructuredReport:           structured,
		HumanSummary:               humanSummary(req.ConversationData, triageResult, redFlags),
		ClinicianSummaryHTML:       h.renderHTML(structured.Summaries.Clinician),
		TriageLevel:                triageResult.Level,
		UrgencyScore:               triageResult.Score,
		RedFlags:                   redFlags,
		RecommendedAction:          recommendedAction(triageResult),
		RequiresImmediateAttention: triageResult.Level == domain.TriageHigh || triageResult.Level == domain.TriageCritical,
		DataComplete:               dataComplete,
		MissingFields:              missingFields,
		Timestamp:                  structured.GeneratedAt,
	})
}

// GetReport handles GET /api/v1/symptom/report/{report_id}.
func (h *SymptomHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]
	if reportID == "" {
		writeError(w, "report_id is required", http.StatusBadRequest)
		return
	}

	stored, err := h.reports.FindByReportID(r.Context(), reportID)
	if err != nil {
		if err == reportrepo.ErrReportNotFound {
			writeError(w, "Report not found", http.StatusNotFound)
			return
		}
		log.Printf("[SymptomHandler] Failed to load report %s: %v", reportID, err)
		writeError(w, "Failed to load report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stored)
}

// renderHTML converts the Markdown clinician summary to HTML for the staff
// dashboard. On render failure the raw text is returned.
func (h *SymptomHandler) renderHTML(markdown string) string {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(markdown), &buf); err != nil {
		log.Printf("[SymptomHandler] Markdown render failed: %v", err)
		return markdown
	}
	return buf.String()
}

// humanSummary renders a one-paragraph narrative of the encounter for
// clinicians who want prose rather than the structured report.
func humanSummary(record domain.SymptomRecord, result domain.TriageResult, redFlags []string) string {
	primary := record.PrimarySymptom
	if primary == "" {
		primary = "unspecified symptom"
	}
	duration := record.Duration
	if duration == "" {
		duration = "unknown duration"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Patient presents with %s", primary)
	if record.Location != "" {
		fmt.Fprintf(&b, " in the %s", record.Location)
	}
	fmt.Fprintf(&b, ", ongoing for %s", duration)
	if record.Severity != nil {
		fmt.Fprintf(&b, " with severity rated %d/10", *record.Severity)
	}
	b.WriteString(".")

	if len(record.AssociatedSymptoms) > 0 {
		fmt.Fprintf(&b, " Associated symptoms include: %s.", strings.Join(record.AssociatedSymptoms, ", "))
	}
	if len(record.AggravatingFactors) > 0 {
		fmt.Fprintf(&b, " Worsened by: %s.", strings.Join(record.AggravatingFactors, ", "))
	}
	if len(record.RelievingFactors) > 0 {
		fmt.Fprintf(&b, " Relieved by: %s.", strings.Join(record.RelievingFactors, ", "))
	}

	fmt.Fprintf(&b, "\n\nTriage Assessment: %s priority (score: %d/10).",
		strings.ToUpper(string(result.Level)), result.Score)

	if len(redFlags) > 0 {
		fmt.Fprintf(&b, "\n\n⚠️ RED FLAGS IDENTIFIED: %s.", strings.Join(redFlags, ", "))
	}

	return b.String()
}

// recommendedAction maps the triage outcome to the clinical follow-up the
// clinic front desk should take.
func recommendedAction(result domain.TriageResult) string {
	switch {
	case result.Level == domain.TriageCritical || result.Score >= 9:
		return "IMMEDIATE ACTION REQUIRED: Call emergency services (ambulance) or " +
			"direct patient to emergency room immediately. Do not delay."
	case result.Level == domain.TriageHigh || result.Score >= 7:
		return "URGENT: Schedule same-day appointment or direct to urgent care clinic. " +
			"Patient should be seen within 2-4 hours."
	case result.Level == domain.TriageMedium || result.Score >= 5:
		return "SEMI-URGENT: Schedule appointment within 24-48 hours. " +
			"Monitor symptoms and escalate if condition worsens."
	default:
		return "ROUTINE: Schedule appointment within 3-7 days. " +
			"Provide self-care guidance and monitoring instructions."
	}
}

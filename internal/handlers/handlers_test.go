// File: internal/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/ratelimit"
	"github.com/medassist-ng/ai-service/internal/services"
	"github.com/medassist-ng/ai-service/internal/services/conversation"
	"github.com/medassist-ng/ai-service/internal/services/document"
	"github.com/medassist-ng/ai-service/internal/services/intake"
	"github.com/medassist-ng/ai-service/internal/services/intent"
	"github.com/medassist-ng/ai-service/internal/services/message"
	"github.com/medassist-ng/ai-service/internal/services/report"
	"github.com/medassist-ng/ai-service/internal/services/safety"
	"github.com/medassist-ng/ai-service/internal/services/slots"
	"github.com/medassist-ng/ai-service/internal/services/translation"
	"github.com/medassist-ng/ai-service/internal/services/triage"
)

// fakeReportRepo is an in-memory ReportRepository for handler tests.
type fakeReportRepo struct {
	reports []domain.TriageReport
	failing bool
}

func (f *fakeReportRepo) Create(ctx context.Context, r *domain.TriageReport) (*domain.TriageReport, error) {
	if f.failing {
		return nil, fmt.Errorf("storage unavailable")
	}
	r.ID = uint(len(f.reports) + 1)
	f.reports = append(f.reports, *r)
	return r, nil
}

func (f *fakeReportRepo) FindByReportID(ctx context.Context, reportID string) (*domain.TriageReport, error) {
	for i := range f.reports {
		if f.reports[i].ReportID == reportID {
			return &f.reports[i], nil
		}
	}
	return nil, fmt.Errorf("report not found")
}

func (f *fakeReportRepo) FindByPatientID(ctx context.Context, patientID string, limit, offset int) ([]domain.TriageReport, int64, error) {
	var out []domain.TriageReport
	for _, r := range f.reports {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReportRepo) FindByTriageLevel(ctx context.Context, level string, limit, offset int) ([]domain.TriageReport, int64, error) {
	var out []domain.TriageReport
	for _, r := range f.reports {
		if r.TriageLevel == level {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReportRepo) FindRedFlagged(ctx context.Context, limit int) ([]domain.TriageReport, error) {
	var out []domain.TriageReport
	for _, r := range f.reports {
		if r.RedFlag {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) CountByLevel(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, r := range f.reports {
		counts[r.TriageLevel]++
	}
	return counts, nil
}

func (f *fakeReportRepo) CountTotal(ctx context.Context) (int64, error) {
	return int64(len(f.reports)), nil
}

func newSymptomHandler(repo *fakeReportRepo) *SymptomHandler {
	logger := &services.NoOpLogger{}
	return NewSymptomHandler(
		intake.NewExtractor(logger),
		triage.NewScorer(logger),
		report.NewGenerator(logger),
		repo,
	)
}

func intPtr(n int) *int { return &n }

func TestSymptomReportGeneratesAndPersists(t *testing.T) {
	repo := &fakeReportRepo{}
	h := newSymptomHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"patient_id": "patient-001",
		"conversation_data": domain.SymptomRecord{
			PrimarySymptom: "chest pain",
			Onset:          "sudden",
			Duration:       "2 hours",
			Severity:       intPtr(9),
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/symptom/report", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.GenerateReport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp symptomReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TriageLevel != domain.TriageCritical {
		t.Errorf("triage level = %s, want critical", resp.TriageLevel)
	}
	if !resp.RequiresImmediateAttention {
		t.Error("expected requires_immediate_attention for critical triage")
	}
	if len(resp.RedFlags) == 0 {
		t.Error("expected red flags for crushing chest pain presentation")
	}
	if !strings.Contains(resp.RecommendedAction, "IMMEDIATE ACTION REQUIRED") {
		t.Errorf("recommended action = %q", resp.RecommendedAction)
	}
	if !strings.Contains(resp.HumanSummary, "chest pain") {
		t.Errorf("human summary missing complaint: %q", resp.HumanSummary)
	}
	if !strings.Contains(resp.ClinicianSummaryHTML, "<") {
		t.Errorf("clinician summary not rendered as HTML: %q", resp.ClinicianSummaryHTML)
	}

	if len(repo.reports) != 1 {
		t.Fatalf("stored reports = %d, want 1", len(repo.reports))
	}
	stored := repo.reports[0]
	if stored.ReportID != resp.ReportID {
		t.Errorf("stored report id = %s, want %s", stored.ReportID, resp.ReportID)
	}
	if stored.TriageLevel != "critical" || !stored.RedFlag {
		t.Errorf("stored triage = %s (red flag %v)", stored.TriageLevel, stored.RedFlag)
	}
	if !strings.Contains(stored.Payload, "\"patient_id\": \"patient-001\"") {
		t.Error("payload JSON missing patient id")
	}
}

func TestSymptomReportFlagsIncompleteData(t *testing.T) {
	repo := &fakeReportRepo{}
	h := newSymptomHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"patient_id": "patient-002",
		"conversation_data": domain.SymptomRecord{
			PrimarySymptom: "headache",
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/symptom/report", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.GenerateReport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp symptomReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DataComplete {
		t.Error("expected data_complete=false for partial record")
	}
	if len(resp.MissingFields) == 0 {
		t.Error("expected missing fields list")
	}
}

func TestSymptomReportRequiresPatientID(t *testing.T) {
	h := newSymptomHandler(&fakeReportRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/symptom/report",
		strings.NewReader(`{"conversation_data":{"primary_symptom":"fever"}}`))
	rec := httptest.NewRecorder()
	h.GenerateReport(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSymptomReportStorageFailure(t *testing.T) {
	h := newSymptomHandler(&fakeReportRepo{failing: true})

	body, _ := json.Marshal(map[string]interface{}{
		"patient_id":        "patient-003",
		"conversation_data": domain.SymptomRecord{PrimarySymptom: "fever"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/symptom/report", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.GenerateReport(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func newMessageHandler(limiterConfig *ratelimit.Config) (*MessageHandler, *ratelimit.MemoryRateLimiter) {
	logger := &services.NoOpLogger{}
	sessions := conversation.NewManager(conversation.NewMemoryStore(), time.Hour, logger)
	svc := message.NewService(
		intent.NewClassifier(nil, logger),
		slots.NewFiller(logger),
		intake.NewExtractor(logger),
		triage.NewScorer(logger),
		safety.NewValidator(logger),
		sessions,
		translation.NewTranslator(nil, logger),
		logger,
	)
	var limiter *ratelimit.MemoryRateLimiter
	if limiterConfig != nil {
		limiter = ratelimit.NewMemoryRateLimiter(limiterConfig)
	}
	return NewMessageHandler(svc, sessions, limiter), limiter
}

func postMessage(t *testing.T, h *MessageHandler, patientID, text string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"patient_id": patientID,
		"message":    text,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/message/process", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Process(rec, req)
	return rec
}

func TestProcessMessageEndToEnd(t *testing.T) {
	h, _ := newMessageHandler(nil)

	rec := postMessage(t, h, "patient-010", "I wan see doctor")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp message.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Intent != domain.IntentAppointmentBooking {
		t.Errorf("intent = %s, want appointment_booking", resp.Intent)
	}
	if resp.NextAction != message.ActionCollectMoreInfo {
		t.Errorf("next action = %s", resp.NextAction)
	}
}

func TestProcessMessageValidation(t *testing.T) {
	h, _ := newMessageHandler(nil)

	rec := postMessage(t, h, "", "hello")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing patient_id: status = %d, want 400", rec.Code)
	}

	rec = postMessage(t, h, "patient-011", "   ")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank message: status = %d, want 400", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/message/process", strings.NewReader("{not json"))
	rec = httptest.NewRecorder()
	h.Process(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", rec.Code)
	}
}

func TestProcessMessageRateLimitPerPatient(t *testing.T) {
	cfg := &ratelimit.Config{
		WindowSize:    time.Minute,
		MaxAttempts:   2,
		CleanupPeriod: time.Minute,
		BanDuration:   time.Minute,
	}
	h, limiter := newMessageHandler(cfg)
	defer limiter.Close()

	for i := 0; i < 2; i++ {
		if rec := postMessage(t, h, "patient-020", "hello"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := postMessage(t, h, "patient-020", "hello")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	// A different patient is unaffected.
	if rec := postMessage(t, h, "patient-021", "hello"); rec.Code != http.StatusOK {
		t.Errorf("other patient blocked: status = %d", rec.Code)
	}
}

func TestSessionHistoryAndClear(t *testing.T) {
	h, _ := newMessageHandler(nil)

	if rec := postMessage(t, h, "patient-030", "I get headache"); rec.Code != http.StatusOK {
		t.Fatalf("seed message failed: %d", rec.Code)
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/message/session/{patient_id}", h.History).Methods("GET")
	router.HandleFunc("/api/v1/message/session/{patient_id}", h.ClearSession).Methods("DELETE")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/message/session/patient-030", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var hist struct {
		PatientID    string                       `json:"patient_id"`
		MessageCount int                          `json:"message_count"`
		History      []domain.ConversationMessage `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if hist.MessageCount != 2 {
		t.Errorf("message count = %d, want 2 (user + assistant)", hist.MessageCount)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/message/session/patient-030", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/message/session/patient-030", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("history after clear: status = %d, want 404", rec.Code)
	}
}

func multipartUpload(t *testing.T, filename, docType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(content)
	if docType != "" {
		w.WriteField("document_type", docType)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/document/extract", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestDocumentExtractFallbackWithoutProvider(t *testing.T) {
	h := NewDocumentHandler(document.NewExtractor(nil, &services.NoOpLogger{}))

	req := multipartUpload(t, "prescription.pdf", "prescription", []byte("%PDF-1.4 test"))
	rec := httptest.NewRecorder()
	h.Extract(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ExtractionID  string              `json:"extraction_id"`
		DocumentType  string              `json:"document_type"`
		ExtractedData document.Extraction `json:"extracted_data"`
		Success       bool                `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.ExtractionID == "" {
		t.Errorf("success = %v, extraction id = %q", resp.Success, resp.ExtractionID)
	}
	if resp.DocumentType != "prescription" {
		t.Errorf("document type = %s", resp.DocumentType)
	}
	if !resp.ExtractedData.Fallback {
		t.Error("expected fallback extraction without OCR provider")
	}
}

func TestDocumentExtractRejectsUnsupportedExtension(t *testing.T) {
	h := NewDocumentHandler(document.NewExtractor(nil, &services.NoOpLogger{}))

	req := multipartUpload(t, "notes.docx", "", []byte("hello"))
	rec := httptest.NewRecorder()
	h.Extract(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), ".docx") {
		t.Errorf("error should name the extension: %s", rec.Body.String())
	}
}

func TestDocumentExtractRequiresFile(t *testing.T) {
	h := NewDocumentHandler(document.NewExtractor(nil, &services.NoOpLogger{}))

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("document_type", "lab_result")
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/document/extract", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Extract(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTranslateAndDetectEndpoints(t *testing.T) {
	h := NewTranslateHandler(translation.NewTranslator(nil, &services.NoOpLogger{}))

	body := `{"text":"I have a headache","target_language":"pcm"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/translate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Translate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("translate status = %d", rec.Code)
	}
	var result translation.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode translation: %v", err)
	}
	if result.TranslatedText != "My head dey pain me" {
		t.Errorf("translated = %q", result.TranslatedText)
	}

	body = `{"text":"wetin dey do you"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/translate/detect", strings.NewReader(body))
	rec = httptest.NewRecorder()
	h.DetectLanguage(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("detect status = %d", rec.Code)
	}
	var detect struct {
		DetectedLanguage string  `json:"detected_language"`
		Confidence       float64 `json:"confidence"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detect); err != nil {
		t.Fatalf("decode detection: %v", err)
	}
	if detect.DetectedLanguage != translation.Pidgin {
		t.Errorf("detected = %s, want pcm", detect.DetectedLanguage)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/translate", strings.NewReader(`{"text":"hi","target_language":"fr"}`))
	rec = httptest.NewRecorder()
	h.Translate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unsupported language: status = %d, want 400", rec.Code)
	}
}

func TestSupportedLanguagesEndpoint(t *testing.T) {
	h := NewTranslateHandler(translation.NewTranslator(nil, &services.NoOpLogger{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/translate/languages", nil)
	rec := httptest.NewRecorder()
	h.SupportedLanguages(rec, req)

	var resp struct {
		NigerianLanguages map[string]string `json:"nigerian_languages"`
		AllLanguages      map[string]string `json:"all_languages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.NigerianLanguages["pcm"] != "Nigerian Pidgin" {
		t.Errorf("nigerian languages = %v", resp.NigerianLanguages)
	}
	if len(resp.AllLanguages) != 5 {
		t.Errorf("all languages = %v", resp.AllLanguages)
	}
}

func TestPaginationDefaultsAndBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports", nil)
	page, limit := pagination(req)
	if page != 1 || limit != 10 {
		t.Errorf("defaults = (%d, %d), want (1, 10)", page, limit)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports?page=3&limit=50", nil)
	page, limit = pagination(req)
	if page != 3 || limit != 50 {
		t.Errorf("parsed = (%d, %d), want (3, 50)", page, limit)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports?page=-1&limit=5000", nil)
	page, limit = pagination(req)
	if page != 1 || limit != 10 {
		t.Errorf("out of range = (%d, %d), want (1, 10)", page, limit)
	}
}

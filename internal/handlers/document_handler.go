// File: internal/handlers/document_handler.go
package handlers

import (
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/medassist-ng/ai-service/internal/services/document"
)

const maxUploadSize = 10 << 20 // 10MB

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// DocumentHandler accepts uploaded medical documents and runs OCR extraction.
type DocumentHandler struct {
	extractor *document.Extractor
}

func NewDocumentHandler(extractor *document.Extractor) *DocumentHandler {
	return &DocumentHandler{extractor: extractor}
}

// Extract handles POST /api/v1/document/extract (multipart form upload).
func (h *DocumentHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, "File too large or malformed upload. Maximum: 10MB", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "Missing file field in upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeError(w, "Unsupported file type: "+ext+". Allowed: .pdf, .png, .jpg, .jpeg", http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		log.Printf("[DocumentHandler] Failed to read upload %s: %v", header.Filename, err)
		writeError(w, "Failed to read uploaded file", http.StatusInternalServerError)
		return
	}
	if len(content) > maxUploadSize {
		writeError(w, "File too large. Maximum: 10MB", http.StatusBadRequest)
		return
	}

	docType := document.ParseType(r.FormValue("document_type"))
	patientID := r.FormValue("patient_id")

	log.Printf("[DocumentHandler] Processing upload: %s (type: %s, %d bytes)",
		header.Filename, docType, len(content))

	extraction, err := h.extractor.Extract(r.Context(), content, docType)
	if err != nil {
		log.Printf("[DocumentHandler] Extraction failed for %s: %v", header.Filename, err)
		writeError(w, "Failed to extract document", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"extraction_id":  uuid.NewString(),
		"filename":       header.Filename,
		"document_type":  docType,
		"patient_id":     patientID,
		"extracted_data": extraction,
		"content_length": len(content),
		"success":        true,
	})
}

// SupportedTypes handles GET /api/v1/document/supported-types.
func (h *DocumentHandler) SupportedTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"supported_types": map[string]interface{}{
			string(document.TypePrescription): map[string]interface{}{
				"description": "Prescription documents",
				"fields":      []string{"medication_name", "dosage", "frequency", "prescriber", "date"},
			},
			string(document.TypeLabResult): map[string]interface{}{
				"description": "Laboratory test results",
				"fields":      []string{"test_name", "result_value", "reference_range", "date", "lab_name"},
			},
			string(document.TypeMedicalRecord): map[string]interface{}{
				"description": "General medical forms (intake, history, consent)",
				"fields":      []string{"patient_name", "dob", "address", "phone", "medical_history"},
			},
			string(document.TypeInsuranceCard): map[string]interface{}{
				"description": "Insurance/health card information",
				"fields":      []string{"member_id", "group_number", "plan_name", "coverage_dates"},
			},
		},
		"supported_formats": []string{".pdf", ".png", ".jpg", ".jpeg"},
		"max_file_size_mb":  10,
	})
}

// File: internal/services/document/extractor.go
package document

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/medassist-ng/ai-service/internal/services"
)

// Type classifies the medical documents patients upload.
type Type string

const (
	TypePrescription  Type = "prescription"
	TypeLabResult     Type = "lab_result"
	TypeMedicalRecord Type = "medical_record"
	TypeInsuranceCard Type = "insurance_card"
	TypeReferral      Type = "referral"
	TypeGeneral       Type = "general"
)

// ParseType maps a request string to a document type, defaulting to general.
func ParseType(s string) Type {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypePrescription:
		return TypePrescription
	case TypeLabResult:
		return TypeLabResult
	case TypeMedicalRecord:
		return TypeMedicalRecord
	case TypeInsuranceCard:
		return TypeInsuranceCard
	case TypeReferral:
		return TypeReferral
	default:
		return TypeGeneral
	}
}

// TableCell is one cell of a recognized table.
type TableCell struct {
	RowIndex    int    `json:"row_index"`
	ColumnIndex int    `json:"column_index"`
	Content     string `json:"content"`
	IsHeader    bool   `json:"is_header"`
}

// Table is a recognized table with its cells in reading order.
type Table struct {
	RowCount    int         `json:"row_count"`
	ColumnCount int         `json:"column_count"`
	Cells       []TableCell `json:"cells"`
}

// Analysis is the raw OCR output for one document.
type Analysis struct {
	Text          string
	KeyValuePairs map[string]string
	Tables        []Table
	Pages         int
	Confidence    float64
	Language      string
}

// OCRProvider is the document-intelligence backend.
type OCRProvider interface {
	Analyze(ctx context.Context, data []byte) (Analysis, error)
}

// MedicationMatch records a known medication found in prescription text.
type MedicationMatch struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
}

// PrescriptionData is the structured view of a prescription document.
type PrescriptionData struct {
	PatientName string            `json:"patient_name,omitempty"`
	DoctorName  string            `json:"doctor_name,omitempty"`
	Date        string            `json:"date,omitempty"`
	Pharmacy    string            `json:"pharmacy,omitempty"`
	Medications []MedicationMatch `json:"medications"`
}

// LabTest is one row of a laboratory result table.
type LabTest struct {
	Test      string `json:"test"`
	Value     string `json:"value,omitempty"`
	Unit      string `json:"unit,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// LabData is the structured view of a lab result document.
type LabData struct {
	TestType string    `json:"test_type,omitempty"`
	Date     string    `json:"date,omitempty"`
	Results  []LabTest `json:"results"`
}

// Extraction is the full result returned to callers.
type Extraction struct {
	DocumentType  Type              `json:"document_type"`
	Text          string            `json:"text"`
	KeyValuePairs map[string]string `json:"key_value_pairs"`
	Tables        []Table           `json:"tables"`
	Pages         int               `json:"pages"`
	Confidence    float64           `json:"confidence"`
	Language      string            `json:"language,omitempty"`
	Fallback      bool              `json:"fallback,omitempty"`
	Message       string            `json:"message,omitempty"`
	Prescription  *PrescriptionData `json:"prescription_data,omitempty"`
	LabResult     *LabData          `json:"lab_data,omitempty"`
}

// knownMedications are common Nigerian medications scanned for in
// prescription text.
var knownMedications = []string{
	"paracetamol", "amoxicillin", "chloroquine", "artemether",
	"lumefantrine", "metronidazole", "ciprofloxacin", "azithromycin",
	"amoxicillin/clavulanate", "coartem", "lonart",
}

const fallbackMessage = "Document OCR is not configured. The document was stored but its " +
	"contents could not be read automatically."

// Extractor turns uploaded medical documents into structured data.
// Without a configured provider every call returns the fallback payload.
type Extractor struct {
	provider OCRProvider
	logger   services.Logger
}

func NewExtractor(provider OCRProvider, logger services.Logger) *Extractor {
	if provider == nil {
		logger.Warn("document extractor running without OCR provider, extractions will use fallback")
	}
	return &Extractor{provider: provider, logger: logger}
}

// IsAvailable reports whether an OCR provider is configured.
func (e *Extractor) IsAvailable() bool {
	return e.provider != nil
}

// Extract runs OCR over the document and post-processes prescriptions and
// lab results into their structured shapes.
func (e *Extractor) Extract(ctx context.Context, data []byte, docType Type) (Extraction, error) {
	if !e.IsAvailable() {
		return e.fallbackExtraction(docType), nil
	}

	analysis, err := e.provider.Analyze(ctx, data)
	if err != nil {
		e.logger.Error("document analysis failed", "document_type", string(docType), "error", err)
		return Extraction{}, fmt.Errorf("analyze document: %w", err)
	}

	extraction := Extraction{
		DocumentType:  docType,
		Text:          analysis.Text,
		KeyValuePairs: analysis.KeyValuePairs,
		Tables:        analysis.Tables,
		Pages:         analysis.Pages,
		Confidence:    analysis.Confidence,
		Language:      analysis.Language,
	}
	if extraction.KeyValuePairs == nil {
		extraction.KeyValuePairs = map[string]string{}
	}

	switch docType {
	case TypePrescription:
		extraction.Prescription = parsePrescription(extraction)
	case TypeLabResult:
		extraction.LabResult = parseLabResult(extraction)
	}

	e.logger.Info("document extracted",
		"document_type", string(docType),
		"characters", len(extraction.Text),
		"pages", extraction.Pages)
	return extraction, nil
}

func (e *Extractor) fallbackExtraction(docType Type) Extraction {
	e.logger.Warn("using fallback extraction, OCR provider not configured")
	return Extraction{
		DocumentType:  docType,
		Text:          "[Document content - OCR not available]",
		KeyValuePairs: map[string]string{},
		Tables:        []Table{},
		Confidence:    0.0,
		Fallback:      true,
		Message:       fallbackMessage,
	}
}

// parsePrescription pulls patient, doctor and date out of key-value pairs
// and scans the text for known medication names.
func parsePrescription(extraction Extraction) *PrescriptionData {
	data := &PrescriptionData{Medications: []MedicationMatch{}}

	for key, value := range extraction.KeyValuePairs {
		keyLower := strings.ToLower(key)
		switch {
		case strings.Contains(keyLower, "patient") && strings.Contains(keyLower, "name"):
			data.PatientName = value
		case strings.Contains(keyLower, "doctor") || strings.Contains(keyLower, "physician"):
			data.DoctorName = value
		case strings.Contains(keyLower, "date"):
			data.Date = value
		}
	}

	text := strings.ToLower(extraction.Text)
	for _, med := range knownMedications {
		if strings.Contains(text, med) {
			data.Medications = append(data.Medications, MedicationMatch{Name: med, Found: true})
		}
	}
	return data
}

// parseLabResult reads table rows as test results: name, value, unit and
// reference range in column order.
func parseLabResult(extraction Extraction) *LabData {
	data := &LabData{Results: []LabTest{}}

	for _, table := range extraction.Tables {
		rows := map[int][]TableCell{}
		maxRow := -1
		for _, cell := range table.Cells {
			rows[cell.RowIndex] = append(rows[cell.RowIndex], cell)
			if cell.RowIndex > maxRow {
				maxRow = cell.RowIndex
			}
		}

		for rowIdx := 0; rowIdx <= maxRow; rowIdx++ {
			cells := rows[rowIdx]
			if len(cells) < 2 {
				continue
			}
			sort.Slice(cells, func(i, j int) bool { return cells[i].ColumnIndex < cells[j].ColumnIndex })
			result := LabTest{Test: cells[0].Content, Value: cells[1].Content}
			if len(cells) > 2 {
				result.Unit = cells[2].Content
			}
			if len(cells) > 3 {
				result.Reference = cells[3].Content
			}
			data.Results = append(data.Results, result)
		}
	}
	return data
}

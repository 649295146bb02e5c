// File: internal/domain/report.go
package domain

import "time"

// TriageReport is the persisted record of a completed triage encounter.
// The structured report payload is stored as JSON so the schema can evolve
// without migrations; the indexed columns cover the queries clinicians run.
type TriageReport struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	ReportID         string `gorm:"uniqueIndex;not null" json:"report_id"`
	PatientID        string `gorm:"index;not null" json:"patient_id"`
	Intent           string `json:"intent"`
	TriageLevel      string `gorm:"index" json:"triage_level"`
	TriageScore      int    `json:"triage_score"`
	RedFlag          bool   `json:"red_flag"`
	RedFlagCategory  string `json:"red_flag_category"`
	ClinicianSummary string `json:"clinician_summary"`
	PatientSummary   string `json:"patient_summary"`
	Payload          string `json:"payload"` // full report JSON
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

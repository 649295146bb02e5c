// File: internal/domain/symptom.go
package domain

// SymptomRecord is the structured symptom picture built incrementally across
// turns. Fields follow the merge-non-empty-wins rule: a later extraction only
// overwrites a field when it carries a non-empty value. The record is never
// reset except through an explicit conversation reset.
type SymptomRecord struct {
	PrimarySymptom     string   `json:"primary_symptom,omitempty"`
	Onset              string   `json:"onset,omitempty"`
	Duration           string   `json:"duration,omitempty"`
	Severity           *int     `json:"severity,omitempty"` // 0-10
	Location           string   `json:"location,omitempty"`
	Character          string   `json:"character,omitempty"`
	AggravatingFactors []string `json:"aggravating_factors,omitempty"`
	RelievingFactors   []string `json:"relieving_factors,omitempty"`
	AssociatedSymptoms []string `json:"associated_symptoms,omitempty"`
	MedicationsTried   []string `json:"medications_tried,omitempty"`
	PreviousEpisodes   *bool    `json:"previous_episodes,omitempty"`
}

// Merge applies update onto r field by field, keeping existing values wherever
// the update is empty. Applying the same update twice is idempotent.
func (r SymptomRecord) Merge(update SymptomRecord) SymptomRecord {
	if update.PrimarySymptom != "" {
		r.PrimarySymptom = update.PrimarySymptom
	}
	if update.Onset != "" {
		r.Onset = update.Onset
	}
	if update.Duration != "" {
		r.Duration = update.Duration
	}
	if update.Severity != nil {
		r.Severity = update.Severity
	}
	if update.Location != "" {
		r.Location = update.Location
	}
	if update.Character != "" {
		r.Character = update.Character
	}
	if len(update.AggravatingFactors) > 0 {
		r.AggravatingFactors = update.AggravatingFactors
	}
	if len(update.RelievingFactors) > 0 {
		r.RelievingFactors = update.RelievingFactors
	}
	if len(update.AssociatedSymptoms) > 0 {
		r.AssociatedSymptoms = update.AssociatedSymptoms
	}
	if len(update.MedicationsTried) > 0 {
		r.MedicationsTried = update.MedicationsTried
	}
	if update.PreviousEpisodes != nil {
		r.PreviousEpisodes = update.PreviousEpisodes
	}
	return r
}

// SeverityValue returns the recorded severity, or 0 when it has not been
// captured yet.
func (r SymptomRecord) SeverityValue() int {
	if r.Severity == nil {
		return 0
	}
	return *r.Severity
}

// IntPtr and BoolPtr are small helpers for building optional fields.
func IntPtr(v int) *int    { return &v }
func BoolPtr(v bool) *bool { return &v }

// File: internal/domain/triage.go
package domain

// TriageLevel is the four-band urgency classification. It is always derived
// from a numeric score through triage.LevelForScore, never set independently.
type TriageLevel string

const (
	TriageLow      TriageLevel = "low"      // non-urgent, within 24 hours
	TriageMedium   TriageLevel = "medium"   // semi-urgent, within 4 hours
	TriageHigh     TriageLevel = "high"     // urgent, within 1 hour
	TriageCritical TriageLevel = "critical" // immediate, life-threatening
)

// rank orders levels for comparisons; higher is more urgent.
func (l TriageLevel) rank() int {
	switch l {
	case TriageCritical:
		return 3
	case TriageHigh:
		return 2
	case TriageMedium:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether l is as urgent as other or more so.
func (l TriageLevel) AtLeast(other TriageLevel) bool {
	return l.rank() >= other.rank()
}

// RedFlagCategory names a class of life-threatening symptom patterns.
type RedFlagCategory string

const (
	RedFlagCardiac      RedFlagCategory = "cardiac"
	RedFlagRespiratory  RedFlagCategory = "respiratory"
	RedFlagNeurological RedFlagCategory = "neurological"
	RedFlagBleeding     RedFlagCategory = "bleeding"
	RedFlagTrauma       RedFlagCategory = "trauma"
	RedFlagMentalHealth RedFlagCategory = "mental_health"
	RedFlagPediatric    RedFlagCategory = "pediatric"
	RedFlagObstetric    RedFlagCategory = "obstetric"
)

// VitalSigns carries optionally-measured vitals. Nil pointers mean "not taken".
type VitalSigns struct {
	Temperature *float64 `json:"temperature,omitempty"`  // °C
	BPSystolic  *int     `json:"bp_systolic,omitempty"`  // mmHg
	BPDiastolic *int     `json:"bp_diastolic,omitempty"` // mmHg
	Pulse       *int     `json:"pulse,omitempty"`        // bpm
	SpO2        *int     `json:"spo2,omitempty"`         // %
	RespRate    *int     `json:"respiratory_rate,omitempty"`
}

// PatientMetadata carries demographics and history relevant to scoring.
type PatientMetadata struct {
	Age               *int     `json:"age,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	ChronicConditions []string `json:"chronic_conditions,omitempty"`
	Pregnant          bool     `json:"pregnant,omitempty"`
}

// TriageResult is the complete outcome of one triage invocation. It is a value
// object: produced fresh per call and never mutated afterwards. Level and
// RequiresImmediateAttention are pure functions of Score and the red flag.
type TriageResult struct {
	Score                      int             `json:"score"` // 1-10, never 0
	Level                      TriageLevel     `json:"triage_level"`
	RedFlagDetected            bool            `json:"red_flag_detected"`
	RedFlagCategory            RedFlagCategory `json:"red_flag_category,omitempty"`
	RecommendedActions         []string        `json:"recommended_actions"`
	MaxWaitTime                string          `json:"max_wait_time"`
	RequiresImmediateAttention bool            `json:"requires_immediate_attention"`
}

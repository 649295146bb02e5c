// File: internal/services/intake/extractor.go
package intake

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services"
)

// Status of the symptom intake workflow.
type Status string

const (
	StatusIncomplete     Status = "incomplete"
	StatusReadyForTriage Status = "ready_for_triage"
)

// requiredFields must all be captured before a record is triage-ready.
// Order is the order follow-up questions are asked in.
var requiredFields = []string{"primary_symptom", "onset", "duration", "severity"}

var optionalFields = []string{
	"location", "character", "aggravating_factors", "relieving_factors",
	"associated_symptoms", "previous_episodes", "medications_tried",
}

var genericQuestions = map[string]string{
	"primary_symptom":     "What symptoms are you experiencing?",
	"onset":               "When did this start? (e.g., this morning, 2 days ago, last week)",
	"duration":            "How long have you had this symptom?",
	"severity":            "On a scale of 1-10, how severe is it? (1=mild, 10=worst pain imaginable)",
	"location":            "Where exactly do you feel the pain/discomfort?",
	"character":           "How would you describe it? (e.g., sharp, dull, throbbing, burning)",
	"aggravating_factors": "What makes it worse?",
	"relieving_factors":   "What makes it better?",
	"associated_symptoms": "Are you experiencing any other symptoms along with this?",
	"previous_episodes":   "Have you had this before?",
	"medications_tried":   "Have you taken any medication for this? If yes, which ones?",
}

// targetedQuestions sharpens the follow-up for common presentations.
var targetedQuestions = map[string]map[string]string{
	"headache": {
		"location":            "Where is the headache? (front, back, sides, all over)",
		"character":           "Is it sharp, throbbing, dull, or pressure-like?",
		"associated_symptoms": "Do you have nausea, vomiting, sensitivity to light, or vision changes?",
		"aggravating_factors": "Does it get worse with movement, light, or noise?",
	},
	"chest pain": {
		"location":            "Where exactly in your chest?",
		"character":           "Is it crushing, sharp, burning, or pressure?",
		"associated_symptoms": "Do you have shortness of breath, sweating, or arm/jaw pain?",
		"aggravating_factors": "Does it worsen with breathing, exertion, or lying down?",
	},
	"stomach pain": {
		"location":            "Which part of your stomach/abdomen?",
		"character":           "Is it cramping, sharp, burning, or aching?",
		"associated_symptoms": "Do you have nausea, vomiting, diarrhea, or constipation?",
		"aggravating_factors": "Does eating make it better or worse?",
	},
	"fever": {
		"severity":            "How high is your temperature if measured?",
		"associated_symptoms": "Do you have chills, sweating, body aches, or fatigue?",
		"onset":               "Did it come on suddenly or gradually?",
	},
	"cough": {
		"character":           "Is it dry or producing mucus/phlegm?",
		"associated_symptoms": "Do you have fever, shortness of breath, or chest tightness?",
		"aggravating_factors": "Is it worse at night or when lying down?",
	},
}

type symptomEntry struct {
	name     string
	keywords []string
}

// symptomTable maps patient phrasing, including Nigerian Pidgin, onto
// canonical symptom names. First listed match wins.
var symptomTable = []symptomEntry{
	{"headache", []string{"headache", "head pain", "head dey pain", "head ache"}},
	{"fever", []string{"fever", "temperature", "hot body", "body hot"}},
	{"cough", []string{"cough", "coughing"}},
	{"chest pain", []string{"chest pain", "chest hurt", "chest dey pain"}},
	{"stomach pain", []string{"stomach pain", "belly pain", "belle pain", "belle dey pain", "abdominal pain"}},
	{"back pain", []string{"back pain", "back hurt", "back ache"}},
	{"sore throat", []string{"sore throat", "throat pain", "throat hurt"}},
	{"shortness of breath", []string{"shortness of breath", "can't breathe", "difficulty breathing", "no fit breathe"}},
	{"nausea", []string{"nausea", "feel sick", "want to vomit"}},
	{"vomiting", []string{"vomit", "vomiting", "throwing up"}},
	{"diarrhea", []string{"diarrhea", "loose stool", "running stomach"}},
	{"dizziness", []string{"dizzy", "light headed", "spinning"}},
	{"fatigue", []string{"tired", "fatigue", "weak", "weakness", "no strength"}},
}

var onsetTable = []symptomEntry{
	{"this morning", []string{"this morning", "today morning", "morning time"}},
	{"today", []string{"today", "this day"}},
	{"yesterday", []string{"yesterday", "last night"}},
	{"2 days ago", []string{"2 days", "two days", "since 2 days"}},
	{"3 days ago", []string{"3 days", "three days"}},
	{"this week", []string{"this week", "few days"}},
	{"last week", []string{"last week", "week ago"}},
	{"suddenly", []string{"sudden", "suddenly", "all of a sudden"}},
	{"gradually", []string{"gradual", "gradually", "over time"}},
}

var durationTable = []symptomEntry{
	{"few hours", []string{"few hours", "some hours", "hours now"}},
	{"all day", []string{"all day", "whole day", "entire day"}},
	{"2 days", []string{"2 days", "two days"}},
	{"3 days", []string{"3 days", "three days"}},
	{"about a week", []string{"week", "7 days"}},
	{"several days", []string{"several days", "many days", "days now"}},
	{"persistent", []string{"persistent", "constant", "won't stop", "not stopping"}},
}

var locationTable = []symptomEntry{
	{"forehead", []string{"forehead", "front of head"}},
	{"temples", []string{"temple", "side of head", "sides"}},
	{"back of head", []string{"back of head", "back"}},
	{"chest center", []string{"center of chest", "middle chest", "in the center", "center"}},
	{"left chest", []string{"left chest", "left side"}},
	{"right chest", []string{"right chest", "right side"}},
	{"upper abdomen", []string{"upper stomach", "upper belly", "upper abdomen"}},
	{"lower abdomen", []string{"lower stomach", "lower belly", "lower abdomen"}},
	{"all over", []string{"all over", "everywhere", "whole", "entire"}},
}

var characterKeywords = []string{
	"sharp", "dull", "throbbing", "pulsating", "aching",
	"burning", "stabbing", "cramping", "crushing",
	"pressure", "tight", "squeezing",
}

// descriptiveSeverity is ordered longest phrase first so "very severe" does
// not resolve as "severe".
var descriptiveSeverity = []struct {
	phrase string
	score  int
}{
	{"very severe", 9},
	{"unbearable", 10},
	{"worst", 10},
	{"severe", 8},
	{"moderate", 5},
	{"medium", 5},
	{"mild", 3},
	{"little", 2},
	{"small", 2},
}

var (
	forDurationPattern  = regexp.MustCompile(`for (\d+) (day|days|hour|hours)`)
	beenDurationPattern = regexp.MustCompile(`been (\d+) (day|days|hour|hours)`)
	scaleSeverity       = regexp.MustCompile(`(\d+)\s*(?:out of 10|/10)`)
	pidginSeverity      = regexp.MustCompile(`(?:like say na|e be like|na like)\s+(\d+)`)
	contextSeverity     = regexp.MustCompile(`(?:pain|severity|about|around|like)\s+(\d+)`)
)

// Extractor builds a structured symptom record from free-text messages and
// drives the targeted questioning loop.
type Extractor struct {
	logger services.Logger
}

func NewExtractor(logger services.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract parses the message and merges new findings into current. The
// primary symptom is only set once; later messages refine the other fields.
func (e *Extractor) Extract(message string, current domain.SymptomRecord) domain.SymptomRecord {
	lower := strings.ToLower(message)
	var update domain.SymptomRecord

	if current.PrimarySymptom == "" {
		update.PrimarySymptom = extractPrimarySymptom(lower)
	}

	update.Onset = matchTable(lower, onsetTable)
	update.Duration = extractDuration(lower)
	if severity, ok := extractSeverity(lower); ok {
		update.Severity = domain.IntPtr(severity)
	}
	update.Location = matchTable(lower, locationTable)
	update.Character = extractCharacter(lower)

	if containsAny(lower, []string{"worse", "worsen", "aggravate", "trigger"}) {
		update.AggravatingFactors = extractFactors(lower, aggravatingFactorKeywords)
	}
	if containsAny(lower, []string{"better", "relief", "help", "ease"}) {
		update.RelievingFactors = extractFactors(lower, relievingFactorKeywords)
	}
	if containsAny(lower, []string{"took", "tried", "medication", "drug", "pill", "paracetamol", "ibuprofen"}) {
		update.MedicationsTried = extractFactors(lower, medicationNames)
	}
	if containsAny(lower, []string{"before", "previous", "again", "first time"}) {
		update.PreviousEpisodes = domain.BoolPtr(extractPreviousEpisodes(lower))
	}

	merged := current.Merge(update)
	e.logger.Info("extracted symptom info", "primary_symptom", merged.PrimarySymptom)
	return merged
}

func extractPrimarySymptom(message string) string {
	for _, entry := range symptomTable {
		if containsAny(message, entry.keywords) {
			return entry.name
		}
	}
	// No known symptom phrasing, keep the raw complaint.
	return strings.TrimSpace(message)
}

func extractDuration(message string) string {
	for _, pattern := range []*regexp.Regexp{forDurationPattern, beenDurationPattern} {
		if m := pattern.FindStringSubmatch(message); m != nil {
			num, _ := strconv.Atoi(m[1])
			unit := "hour"
			if strings.HasPrefix(m[2], "day") {
				unit = "day"
			}
			if num > 1 {
				return fmt.Sprintf("%d %ss", num, unit)
			}
			return fmt.Sprintf("1 %s", unit)
		}
	}
	return matchTable(message, durationTable)
}

func extractSeverity(message string) (int, bool) {
	for _, pattern := range []*regexp.Regexp{scaleSeverity, pidginSeverity, contextSeverity} {
		if m := pattern.FindStringSubmatch(message); m != nil {
			num, err := strconv.Atoi(m[1])
			if err == nil && num >= 1 && num <= 10 {
				return num, true
			}
		}
	}
	for _, entry := range descriptiveSeverity {
		if strings.Contains(message, entry.phrase) {
			return entry.score, true
		}
	}
	return 0, false
}

func extractCharacter(message string) string {
	for _, char := range characterKeywords {
		if strings.Contains(message, char) {
			return char
		}
	}
	return ""
}

var (
	aggravatingFactorKeywords = []string{"movement", "exercise", "light", "noise", "eating", "lying down", "standing", "walking"}
	relievingFactorKeywords   = []string{"rest", "lying down", "medication", "sleep", "dark room", "quiet"}
	medicationNames           = []string{"paracetamol", "ibuprofen", "aspirin", "tylenol", "pain killer", "painkiller", "antibiotic"}
)

func extractFactors(message string, keywords []string) []string {
	var found []string
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}

func extractPreviousEpisodes(message string) bool {
	yes := []string{"yes", "before", "again", "previous", "happened before"}
	no := []string{"no", "never", "first time", "never before"}

	if containsAny(message, yes) {
		// "never before" contains "before", so check explicit denial first.
		if containsAny(message, []string{"never", "first time"}) {
			return false
		}
		return true
	}
	if containsAny(message, no) {
		return false
	}
	return false
}

func matchTable(message string, table []symptomEntry) string {
	for _, entry := range table {
		if containsAny(message, entry.keywords) {
			return entry.name
		}
	}
	return ""
}

func containsAny(message string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}

// fieldFilled reports whether the named field carries a value yet.
func fieldFilled(record domain.SymptomRecord, field string) bool {
	switch field {
	case "primary_symptom":
		return record.PrimarySymptom != ""
	case "onset":
		return record.Onset != ""
	case "duration":
		return record.Duration != ""
	case "severity":
		return record.Severity != nil
	case "location":
		return record.Location != ""
	case "character":
		return record.Character != ""
	case "aggravating_factors":
		return len(record.AggravatingFactors) > 0
	case "relieving_factors":
		return len(record.RelievingFactors) > 0
	case "associated_symptoms":
		return len(record.AssociatedSymptoms) > 0
	case "previous_episodes":
		return record.PreviousEpisodes != nil
	case "medications_tried":
		return len(record.MedicationsTried) > 0
	}
	return false
}

// MissingFields returns the required fields not yet captured, in asking order.
func (e *Extractor) MissingFields(record domain.SymptomRecord) []string {
	missing := []string{}
	for _, field := range requiredFields {
		if !fieldFilled(record, field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// NextQuestion returns the next intake question. Required fields come first,
// then optional ones; symptom-specific phrasings take precedence over the
// generic question. Returns "" when nothing is left to ask.
func (e *Extractor) NextQuestion(record domain.SymptomRecord) string {
	if missing := e.MissingFields(record); len(missing) > 0 {
		return e.questionFor(record, missing[0])
	}

	for _, field := range optionalFields {
		if !fieldFilled(record, field) {
			return e.questionFor(record, field)
		}
	}
	return ""
}

func (e *Extractor) questionFor(record domain.SymptomRecord, field string) string {
	primary := strings.ToLower(record.PrimarySymptom)
	if questions, ok := targetedQuestions[primary]; ok {
		if q, ok := questions[field]; ok {
			return q
		}
	}
	return genericQuestions[field]
}

// IsComplete reports whether every required field has been captured.
func (e *Extractor) IsComplete(record domain.SymptomRecord) bool {
	return len(e.MissingFields(record)) == 0
}

// GetStatus maps completeness onto the intake status.
func (e *Extractor) GetStatus(record domain.SymptomRecord) Status {
	if e.IsComplete(record) {
		return StatusReadyForTriage
	}
	return StatusIncomplete
}

// FormatSummary renders a one-line clinical summary of the record.
func (e *Extractor) FormatSummary(record domain.SymptomRecord) string {
	parts := []string{}

	primary := record.PrimarySymptom
	if primary == "" {
		primary = "Unknown symptom"
	}
	parts = append(parts, fmt.Sprintf("Patient reports %s", primary))

	if record.Onset != "" {
		parts = append(parts, fmt.Sprintf("starting %s", record.Onset))
	}
	if record.Duration != "" {
		parts = append(parts, fmt.Sprintf("lasting %s", record.Duration))
	}
	if record.Severity != nil {
		parts = append(parts, fmt.Sprintf("with severity %d/10", *record.Severity))
	}
	if record.Location != "" {
		parts = append(parts, fmt.Sprintf("located in %s", record.Location))
	}
	if record.Character != "" {
		parts = append(parts, fmt.Sprintf("characterized as %s", record.Character))
	}
	if len(record.MedicationsTried) > 0 {
		parts = append(parts, fmt.Sprintf("Patient has tried: %s", strings.Join(record.MedicationsTried, ", ")))
	}

	return strings.Join(parts, ". ") + "."
}

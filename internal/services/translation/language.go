// File: internal/services/translation/language.go
package translation

import "strings"

// Language codes for the Nigerian clinic deployment.
const (
	English = "en"
	Yoruba  = "yo"
	Hausa   = "ha"
	Igbo    = "ig"
	// Nigerian Pidgin has no upstream provider coverage and is always
	// served from the local table.
	Pidgin = "pcm"
)

// SupportedLanguages lists every language the service accepts.
var SupportedLanguages = []string{English, Yoruba, Hausa, Igbo, Pidgin}

// providerLanguages is the subset the upstream translator can handle.
var providerLanguages = map[string]bool{
	English: true,
	Yoruba:  true,
	Hausa:   true,
	Igbo:    true,
}

// languageNames maps codes to the names used in provider prompts.
var languageNames = map[string]string{
	English: "English",
	Yoruba:  "Yoruba",
	Hausa:   "Hausa",
	Igbo:    "Igbo",
	Pidgin:  "Nigerian Pidgin",
}

// LanguageName returns the display name for a supported language code.
func LanguageName(code string) string {
	return languageNames[code]
}

// medicalTerms must survive translation untouched. Disease names, drug
// names and clinical units that patients and staff use as-is.
var medicalTerms = []string{
	"malaria", "typhoid", "cholera", "diabetes", "hypertension",
	"asthma", "tuberculosis", "hiv", "aids", "covid",
	"paracetamol", "amoxicillin", "chloroquine", "artemether",
	"mg", "ml", "bp", "temperature", "pulse", "spo2",
}

// Detection keyword lists, checked in order. Pidgin first because its
// function words are the most distinctive in code-switched messages.
var detectionKeywords = []struct {
	language   string
	confidence float64
	words      []string
}{
	{Pidgin, 0.8, []string{"wetin", "dey", "go", "fit", "wey", "una", "make"}},
	{Yoruba, 0.7, []string{"jẹ", "ni", "wa", "ti", "ṣe"}},
	{Hausa, 0.7, []string{"da", "na", "ba", "ta", "ka"}},
	{Igbo, 0.7, []string{"nke", "na", "bụ", "ya", "mụ"}},
}

// IsSupported reports whether code is one of the service's languages.
func IsSupported(code string) bool {
	for _, lang := range SupportedLanguages {
		if lang == code {
			return true
		}
	}
	return false
}

// tokenize lowercases text and splits it into bare words so detection
// keywords match whole words only, never substrings of English words.
func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', ';', ':', '"', '\'', '(', ')', '-':
			return ' '
		}
		return r
	}, strings.ToLower(text))
	return strings.Fields(cleaned)
}

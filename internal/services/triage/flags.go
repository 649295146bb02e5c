// File: internal/services/triage/flags.go
package triage

import (
	"strings"

	"github.com/medassist-ng/ai-service/internal/domain"
)

type flagSet struct {
	category domain.RedFlagCategory
	phrases  []string
}

// redFlags are phrases that mandate immediate attention regardless of any
// other scoring input. Checked in declaration order; first match wins.
// Pidgin phrasings are included alongside English.
var redFlags = []flagSet{
	{domain.RedFlagCardiac, []string{
		"chest pain", "crushing pain", "chest pressure",
		"pain radiating to arm", "pain radiating to jaw",
		"chest dey pain me well well",
	}},
	{domain.RedFlagRespiratory, []string{
		"can't breathe", "difficulty breathing", "shortness of breath",
		"severe difficulty breathing", "i no fit breathe", "gasping",
	}},
	{domain.RedFlagNeurological, []string{
		"stroke", "sudden weakness", "face drooping", "slurred speech",
		"sudden severe headache", "worst headache", "confused",
		"unconscious", "seizure", "convulsion", "fit",
	}},
	{domain.RedFlagBleeding, []string{
		"severe bleeding", "bleeding heavily", "uncontrolled bleeding",
		"blood dey commot plenty", "vomiting blood", "coughing blood",
	}},
	{domain.RedFlagTrauma, []string{
		"severe injury", "head injury", "accident", "fall from height",
		"stabbing", "gunshot",
	}},
	{domain.RedFlagMentalHealth, []string{
		"suicide", "want to kill myself", "suicidal thoughts",
		"want to harm myself",
	}},
	{domain.RedFlagPediatric, []string{
		"baby not breathing", "child not responding", "baby very weak",
		"pikin no fit breathe", "high fever in baby",
	}},
	{domain.RedFlagObstetric, []string{
		"severe bleeding pregnant", "severe abdominal pain pregnant",
		"water broke early", "baby not moving",
	}},
}

type amberSet struct {
	category string
	phrases  []string
}

// amberFlags are moderate warning signs that raise the score without
// short-circuiting.
var amberFlags = []amberSet{
	{"infection", []string{
		"high fever", "fever above 39", "persistent fever",
		"severe chills", "body hot well well",
	}},
	{"pain", []string{
		"severe pain", "pain 8/10", "pain 9/10", "pain 10/10",
		"unbearable pain", "pain dey worry me",
	}},
	{"gastrointestinal", []string{
		"severe vomiting", "vomiting for days", "bloody stool",
		"severe diarrhea", "severe abdominal pain",
	}},
	{"dehydration", []string{
		"very weak", "dizzy", "fainting", "no urination",
		"dry mouth", "very thirsty",
	}},
}

// checkRedFlags returns the first matching red flag category, or "" if none.
func checkRedFlags(text string) domain.RedFlagCategory {
	for _, set := range redFlags {
		for _, phrase := range set.phrases {
			if strings.Contains(text, phrase) {
				return set.category
			}
		}
	}
	return ""
}

// checkAmberFlags returns the first matching amber category, or "" if none.
func checkAmberFlags(text string) string {
	for _, set := range amberFlags {
		for _, phrase := range set.phrases {
			if strings.Contains(text, phrase) {
				return set.category
			}
		}
	}
	return ""
}

// File: internal/services/safety/keywords.go
package safety

// Keyword sets the validator scans generated responses for. Nigerian Pidgin
// phrasings sit alongside English because responses may code-switch.

var diagnosisKeywords = []string{
	"you have malaria", "you have typhoid", "you have cancer",
	"you have diabetes", "you have covid", "you have stroke",
	"you are suffering from", "you've got",
	"diagnosed with", "condition is",
	"you probably have", "likely have", "definitely have",

	"your sickness na", "your problem na",
	"e be like say you get", "you don get",

	"malaria confirmed", "typhoid confirmed", "covid confirmed",
	"cancer detected", "diabetes confirmed", "symptoms confirm",
}

var prescriptionKeywords = []string{
	"take this drug", "you should take", "i recommend taking",
	"prescribe", "medication for you", "drug for you",
	"take paracetamol", "take amoxicillin", "take chloroquine",
	"use this medicine", "take these tablets",

	"make you take", "use this drug", "drink this medicine",
	"this drug go help you", "take am", "use am",

	"mg daily", "mg three times", "times a day", "times daily",
	"before meals", "after meals",
	"continue for", "days treatment", "500mg",
}

var dangerousKeywords = []string{
	"don't go to hospital", "no need for doctor", "wait it out",
	"it will pass", "just rest", "self-medicate",

	"no go hospital", "no need doctor", "e go pass",
	"just rest small", "use local medicine",

	"treat at home", "home remedy for chest pain",
	"natural cure for", "avoid hospital",
}

// appropriatePhrases mark a response as staying inside the triage/intake
// remit: collecting information, deferring to clinicians, being transparent.
var appropriatePhrases = []string{
	"i'm collecting information", "to help the clinic prepare",
	"for the doctor to review", "nurse will assess",
	"clinician will determine", "medical professional will",

	"make i collect information", "make doctor fit check you",
	"nurse go check you", "medical person go see you",

	"i'm not a doctor", "i cannot diagnose", "cannot prescribe",
	"this is not medical advice", "seek immediate care",
	"go to the hospital", "see a doctor",
}

var questionMarkers = []string{"what", "when", "where", "how", "can you", "do you", "?"}

// File: internal/services/report/summaries.go
package report

import (
	"fmt"
	"strings"

	"github.com/medassist-ng/ai-service/internal/domain"
)

// clinicianSummary renders a SOAP-like professional summary: priority header,
// demographics, chief complaint, history of present illness, vitals,
// assessment and plan.
func clinicianSummary(input Input) string {
	var lines []string
	triage := input.Triage

	lines = append(lines, "=== CLINICIAN SUMMARY ===\n")

	level := strings.ToUpper(string(triage.Level))
	if triage.RedFlagDetected {
		lines = append(lines, fmt.Sprintf("🚨 **PRIORITY: %s - RED FLAG DETECTED**", level))
		lines = append(lines, fmt.Sprintf("Red Flag Category: %s\n", strings.ToUpper(string(triage.RedFlagCategory))))
	} else {
		lines = append(lines, fmt.Sprintf("Priority Level: %s\n", level))
	}

	if meta := input.Metadata; meta != nil {
		var demo []string
		if meta.Age != nil {
			demo = append(demo, fmt.Sprintf("%dyo", *meta.Age))
		}
		if meta.Gender != "" {
			demo = append(demo, meta.Gender)
		}
		if len(demo) > 0 {
			lines = append(lines, fmt.Sprintf("Patient: %s", strings.Join(demo, " ")))
		}
		if len(meta.ChronicConditions) > 0 {
			lines = append(lines, fmt.Sprintf("PMH: %s", strings.Join(meta.ChronicConditions, ", ")))
		}
		if meta.Pregnant {
			lines = append(lines, "**PREGNANT**")
		}
		lines = append(lines, "")
	}

	lines = append(lines, "CHIEF COMPLAINT:")
	primary := input.Symptoms.PrimarySymptom
	if primary == "" {
		primary = "Not specified"
	}
	lines = append(lines, fmt.Sprintf("  %s", primary))

	lines = append(lines, "\nHISTORY OF PRESENT ILLNESS:")
	symptoms := input.Symptoms
	if symptoms.Onset != "" || symptoms.Duration != "" {
		var timing []string
		if symptoms.Onset != "" {
			timing = append(timing, fmt.Sprintf("onset %s", symptoms.Onset))
		}
		if symptoms.Duration != "" {
			timing = append(timing, fmt.Sprintf("duration %s", symptoms.Duration))
		}
		lines = append(lines, fmt.Sprintf("  Timing: %s", strings.Join(timing, ", ")))
	}
	if symptoms.Severity != nil {
		lines = append(lines, fmt.Sprintf("  Severity: %d/10", *symptoms.Severity))
	}
	if symptoms.Location != "" {
		lines = append(lines, fmt.Sprintf("  Location: %s", symptoms.Location))
	}
	if symptoms.Character != "" {
		lines = append(lines, fmt.Sprintf("  Character: %s", symptoms.Character))
	}
	if len(symptoms.AssociatedSymptoms) > 0 {
		lines = append(lines, fmt.Sprintf("  Associated Sx: %s", strings.Join(symptoms.AssociatedSymptoms, ", ")))
	}
	if len(symptoms.AggravatingFactors) > 0 || len(symptoms.RelievingFactors) > 0 {
		var factors []string
		if len(symptoms.AggravatingFactors) > 0 {
			factors = append(factors, fmt.Sprintf("worse with %s", strings.Join(symptoms.AggravatingFactors, ", ")))
		}
		if len(symptoms.RelievingFactors) > 0 {
			factors = append(factors, fmt.Sprintf("better with %s", strings.Join(symptoms.RelievingFactors, ", ")))
		}
		lines = append(lines, fmt.Sprintf("  Modifying factors: %s", strings.Join(factors, "; ")))
	}
	if len(symptoms.MedicationsTried) > 0 {
		lines = append(lines, fmt.Sprintf("  Medications tried: %s", strings.Join(symptoms.MedicationsTried, ", ")))
	}
	if symptoms.PreviousEpisodes != nil && *symptoms.PreviousEpisodes {
		lines = append(lines, "  Previous episodes: yes")
	}

	if vitals := input.VitalSigns; vitals != nil {
		lines = append(lines, "\nVITAL SIGNS:")
		if vitals.Temperature != nil {
			lines = append(lines, fmt.Sprintf("  Temp: %.1f°C", *vitals.Temperature))
		}
		if vitals.BPSystolic != nil && vitals.BPDiastolic != nil {
			lines = append(lines, fmt.Sprintf("  BP: %d/%d mmHg", *vitals.BPSystolic, *vitals.BPDiastolic))
		}
		if vitals.Pulse != nil {
			lines = append(lines, fmt.Sprintf("  Pulse: %d bpm", *vitals.Pulse))
		}
		if vitals.SpO2 != nil {
			lines = append(lines, fmt.Sprintf("  SpO2: %d%%", *vitals.SpO2))
		}
		if vitals.RespRate != nil {
			lines = append(lines, fmt.Sprintf("  RR: %d /min", *vitals.RespRate))
		}
	}

	lines = append(lines, "\nASSESSMENT:")
	lines = append(lines, fmt.Sprintf("  Triage Score: %d/10", triage.Score))
	lines = append(lines, fmt.Sprintf("  Classification: %s", level))

	lines = append(lines, "\nRECOMMENDED ACTIONS:")
	for _, action := range triage.RecommendedActions {
		lines = append(lines, fmt.Sprintf("  • %s", action))
	}

	if triage.MaxWaitTime != "" {
		lines = append(lines, fmt.Sprintf("\nTarget Wait Time: %s", triage.MaxWaitTime))
	}

	return strings.Join(lines, "\n")
}

// patientSummary renders the plain-language summary sent back to the patient.
// Every English line carries a Nigerian Pidgin rendering for clarity.
func patientSummary(triage domain.TriageResult) string {
	var lines []string

	lines = append(lines, "Thank you for providing your information.")
	lines = append(lines, "(Tank you for di information wey you give us.)\n")

	switch {
	case triage.RedFlagDetected || triage.Level == domain.TriageCritical:
		lines = append(lines, "⚠️ YOUR SITUATION REQUIRES IMMEDIATE ATTENTION")
		lines = append(lines, "(Your matter need urgent attention now now!)")
		lines = append(lines, "\nPlease go to the emergency room right away or call for emergency help.")
		lines = append(lines, "(Abeg go hospital emergency room sharp sharp or call ambulance.)")
	case triage.Level == domain.TriageHigh:
		lines = append(lines, "Your situation needs prompt medical attention.")
		lines = append(lines, "(Your matter need doctor attention quick.)")
		lines = append(lines, "\nA healthcare worker will see you within 1 hour.")
		lines = append(lines, "(Doctor or nurse go see you for 1 hour time.)")
	case triage.Level == domain.TriageMedium:
		lines = append(lines, "A healthcare professional will see you soon.")
		lines = append(lines, "(Doctor or nurse go attend to you soon.)")
		lines = append(lines, "\nExpected wait time: up to 4 hours.")
		lines = append(lines, "(You fit wait small, maybe 4 hours.)")
	default:
		lines = append(lines, "Your situation is not urgent.")
		lines = append(lines, "(Your matter no dey serious for now.)")
		lines = append(lines, "\nYou will be seen during regular clinic hours.")
		lines = append(lines, "(Dem go attend to you for normal clinic time.)")
	}

	lines = append(lines, "\n--- What Happens Next ---")
	lines = append(lines, "(Wetin go happen next)")
	lines = append(lines, "\n• A nurse will check your vital signs")
	lines = append(lines, "  (Nurse go check your body temperature, blood pressure)")
	lines = append(lines, "\n• A doctor will examine you")
	lines = append(lines, "  (Doctor go check you well well)")
	lines = append(lines, "\n• The medical team will determine the best treatment")
	lines = append(lines, "  (Di medical people go know which treatment dey best for you)")

	lines = append(lines, "\n--- Important Reminders ---")
	lines = append(lines, "• If your symptoms get worse, alert the staff immediately")
	lines = append(lines, "  (If your condition worse, tell staff sharp!)")
	lines = append(lines, "\n• Bring any medications you're currently taking")
	lines = append(lines, "  (Carry all di drugs wey you dey take)")
	lines = append(lines, "\n• Have your medical records if available")
	lines = append(lines, "  (If you get medical record, bring am)")

	lines = append(lines, "\n--- Please Note ---")
	lines = append(lines, "This assessment was done by an AI assistant to help prepare for your visit.")
	lines = append(lines, "Only a qualified doctor or nurse can diagnose and treat medical conditions.")
	lines = append(lines, "(Na AI help collect this information. Only real doctor fit treat you.)")

	return strings.Join(lines, "\n")
}

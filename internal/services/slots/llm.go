// File: internal/services/slots/llm.go
package slots

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/services/ai"
)

const extractionSystemPrompt = "You are a medical entity extractor. Always respond with a single flat JSON object mapping slot names to string values. Omit slots not present in the message."

var slotJSONPattern = regexp.MustCompile(`\{[^{}]*\}`)

// ModelFiller layers model-assisted extraction over the keyword Filler.
// Any failure on the model path degrades to the keyword tables, so the
// result is never worse than rule-based extraction.
type ModelFiller struct {
	*Filler
	completions ai.Service
}

func NewModelFiller(filler *Filler, completions ai.Service) *ModelFiller {
	return &ModelFiller{Filler: filler, completions: completions}
}

// ExtractWithModel asks the model for slot values and merges them over the
// keyword extraction. Empty model values never erase a filled slot.
func (m *ModelFiller) ExtractWithModel(ctx context.Context, message string, intent domain.Intent, current domain.SlotSet) domain.SlotSet {
	base := m.Extract(message, intent, current)

	var primary func(ctx context.Context) (domain.SlotSet, error)
	if m.completions != nil {
		primary = func(ctx context.Context) (domain.SlotSet, error) {
			return m.extractViaModel(ctx, message, intent)
		}
	}

	modelSlots, err := ai.Resilient(ctx, primary, func() domain.SlotSet {
		return nil
	})
	if err != nil {
		m.logger.Warn("model slot extraction failed, keeping keyword extraction", "error", err)
	}

	return base.MergeNonEmpty(modelSlots)
}

func (m *ModelFiller) extractViaModel(ctx context.Context, message string, intent domain.Intent) (domain.SlotSet, error) {
	spec, ok := intentSlots[intent]
	if !ok {
		return nil, nil
	}

	names := append(append([]string{}, spec.required...), spec.optional...)
	prompt := fmt.Sprintf(`Extract the following slots from the patient message if present: %s.
Patient message: "%s"

Respond with a JSON object containing only the slots you found, e.g. {"date": "tomorrow"}.
`, strings.Join(names, ", "), message)

	response, err := m.completions.Complete(ctx, extractionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	match := slotJSONPattern.FindString(response)
	if match == "" {
		return nil, ai.NewParseError("slot_extraction", "no JSON object in response", nil)
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil, ai.NewParseError("slot_extraction", "JSON decode failed", err)
	}

	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}

	extracted := domain.SlotSet{}
	for name, value := range raw {
		if known[name] && strings.TrimSpace(value) != "" {
			extracted[name] = strings.TrimSpace(value)
		}
	}
	return extracted, nil
}

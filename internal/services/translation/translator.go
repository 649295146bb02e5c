// File: internal/services/translation/translator.go
package translation

import (
	"context"
	"fmt"

	"github.com/medassist-ng/ai-service/internal/services"
)

// Provider is the upstream machine-translation backend.
type Provider interface {
	Translate(ctx context.Context, text, targetLanguage, sourceLanguage string) (string, error)
}

// Result is the outcome of one translation call.
type Result struct {
	TranslatedText string  `json:"translated_text"`
	OriginalText   string  `json:"original_text"`
	SourceLanguage string  `json:"source_language"`
	TargetLanguage string  `json:"target_language"`
	Confidence     float64 `json:"confidence"`
	// Fallback marks results produced by the local phrase table instead
	// of the upstream provider.
	Fallback bool `json:"fallback"`
}

// Detection is the outcome of language detection.
type Detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
	Supported  bool    `json:"is_supported"`
}

// Translator handles the five clinic languages. Pidgin is always served
// locally; the other languages go through the provider when one is
// configured and fall back to the local table when it fails.
type Translator struct {
	provider Provider
	logger   services.Logger
}

func NewTranslator(provider Provider, logger services.Logger) *Translator {
	return &Translator{provider: provider, logger: logger}
}

// IsAvailable reports whether an upstream provider is configured.
func (t *Translator) IsAvailable() bool {
	return t.provider != nil
}

// DetectLanguage runs keyword-based detection over whole words.
// Messages with no marker words default to English.
func (t *Translator) DetectLanguage(text string) Detection {
	words := tokenize(text)
	present := make(map[string]bool, len(words))
	for _, w := range words {
		present[w] = true
	}

	for _, entry := range detectionKeywords {
		for _, kw := range entry.words {
			if present[kw] {
				return Detection{Language: entry.language, Confidence: entry.confidence, Supported: true}
			}
		}
	}
	return Detection{Language: English, Confidence: 0.9, Supported: true}
}

// Translate translates text into targetLanguage. sourceLanguage may be
// empty, in which case the provider auto-detects.
func (t *Translator) Translate(ctx context.Context, text, targetLanguage, sourceLanguage string) (Result, error) {
	if !IsSupported(targetLanguage) {
		return Result{}, fmt.Errorf("unsupported target language: %s (supported: %v)", targetLanguage, SupportedLanguages)
	}

	if targetLanguage == Pidgin || !t.IsAvailable() || !providerLanguages[targetLanguage] {
		return t.localTranslate(text, targetLanguage), nil
	}

	translated, err := t.provider.Translate(ctx, text, targetLanguage, sourceLanguage)
	if err != nil {
		t.logger.Warn("provider translation failed, using local table",
			"target_language", targetLanguage, "error", err)
		return t.localTranslate(text, targetLanguage), nil
	}

	source := sourceLanguage
	if source == "" {
		source = t.DetectLanguage(text).Language
	}
	return Result{
		TranslatedText: translated,
		OriginalText:   text,
		SourceLanguage: source,
		TargetLanguage: targetLanguage,
		Confidence:     1.0,
	}, nil
}

// TranslateBatch translates each text in order. Individual failures fall
// back locally, so the slice always matches the input length.
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, targetLanguage, sourceLanguage string) ([]Result, error) {
	results := make([]Result, 0, len(texts))
	for _, text := range texts {
		result, err := t.Translate(ctx, text, targetLanguage, sourceLanguage)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// TranslateToEnglish is the inbound-message convenience path. On any
// failure it returns the original text unchanged.
func (t *Translator) TranslateToEnglish(ctx context.Context, text string) string {
	result, err := t.Translate(ctx, text, English, "")
	if err != nil || result.TranslatedText == "" {
		return text
	}
	return result.TranslatedText
}

// TranslateFromEnglish is the outbound-response convenience path.
func (t *Translator) TranslateFromEnglish(ctx context.Context, text, targetLanguage string) string {
	result, err := t.Translate(ctx, text, targetLanguage, English)
	if err != nil || result.TranslatedText == "" {
		return text
	}
	return result.TranslatedText
}

// localPhrases covers the greetings and common intake phrases the clinic
// sees most. Anything else is passed through with a language tag so the
// caller can still render something.
var localPhrases = map[string]map[string]string{
	Pidgin: {
		"Hello":             "How you dey",
		"How are you?":      "How you dey?",
		"I have a headache": "My head dey pain me",
		"Thank you":         "Tank you",
	},
	Yoruba: {
		"Hello":             "Bawo",
		"How are you?":      "Bawo ni?",
		"I have a headache": "Ori mi n dun",
		"Thank you":         "E se",
	},
	Hausa: {
		"Hello":             "Sannu",
		"How are you?":      "Yaya kake?",
		"I have a headache": "Kaina yana ciwo",
		"Thank you":         "Na gode",
	},
	Igbo: {
		"Hello":             "Kedu",
		"How are you?":      "Kedu ka i mere?",
		"I have a headache": "Isi m na-afụ ụfụ",
		"Thank you":         "Daalụ",
	},
}

func (t *Translator) localTranslate(text, targetLanguage string) Result {
	translated := ""
	if phrases, ok := localPhrases[targetLanguage]; ok {
		translated = phrases[text]
	}
	if translated == "" {
		if targetLanguage == English {
			translated = text
		} else {
			translated = fmt.Sprintf("[%s] %s", targetLanguage, text)
		}
	}
	return Result{
		TranslatedText: translated,
		OriginalText:   text,
		SourceLanguage: English,
		TargetLanguage: targetLanguage,
		Confidence:     0.9,
		Fallback:       true,
	}
}

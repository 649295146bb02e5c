// File: internal/handlers/translate_handler.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/medassist-ng/ai-service/internal/services/translation"
)

const maxBatchTexts = 100

// TranslateHandler exposes translation and language detection.
type TranslateHandler struct {
	translator *translation.Translator
}

func NewTranslateHandler(translator *translation.Translator) *TranslateHandler {
	return &TranslateHandler{translator: translator}
}

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
	SourceLanguage string `json:"source_language,omitempty"`
}

type batchTranslateRequest struct {
	Texts          []string `json:"texts"`
	TargetLanguage string   `json:"target_language"`
	SourceLanguage string   `json:"source_language,omitempty"`
}

// Translate handles POST /api/v1/translate.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, "text is required", http.StatusBadRequest)
		return
	}

	result, err := h.translator.Translate(r.Context(), req.Text, req.TargetLanguage, req.SourceLanguage)
	if err != nil {
		log.Printf("[TranslateHandler] Translation to %s failed: %v", req.TargetLanguage, err)
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// TranslateBatch handles POST /api/v1/translate/batch.
func (h *TranslateHandler) TranslateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchTranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Texts) == 0 {
		writeError(w, "texts is required", http.StatusBadRequest)
		return
	}
	if len(req.Texts) > maxBatchTexts {
		writeError(w, "Maximum 100 texts per batch request", http.StatusBadRequest)
		return
	}

	results, err := h.translator.TranslateBatch(r.Context(), req.Texts, req.TargetLanguage, req.SourceLanguage)
	if err != nil {
		log.Printf("[TranslateHandler] Batch translation to %s failed: %v", req.TargetLanguage, err)
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"translations":    results,
		"count":           len(results),
		"target_language": req.TargetLanguage,
	})
}

// DetectLanguage handles POST /api/v1/translate/detect.
func (h *TranslateHandler) DetectLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, "text is required", http.StatusBadRequest)
		return
	}

	detection := h.translator.DetectLanguage(req.Text)

	preview := req.Text
	if runes := []rune(preview); len(runes) > 100 {
		preview = string(runes[:100])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"text":              preview,
		"detected_language": detection.Language,
		"confidence":        detection.Confidence,
		"supported":         detection.Supported,
	})
}

// SupportedLanguages handles GET /api/v1/translate/languages.
func (h *TranslateHandler) SupportedLanguages(w http.ResponseWriter, r *http.Request) {
	languages := make(map[string]string, len(translation.SupportedLanguages))
	for _, code := range translation.SupportedLanguages {
		languages[code] = translation.LanguageName(code)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"nigerian_languages": map[string]string{
			translation.Yoruba: translation.LanguageName(translation.Yoruba),
			translation.Hausa:  translation.LanguageName(translation.Hausa),
			translation.Igbo:   translation.LanguageName(translation.Igbo),
			translation.Pidgin: translation.LanguageName(translation.Pidgin),
		},
		"all_languages": languages,
		"total_count":   len(languages),
	})
}

// File: internal/services/translation/provider.go
package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/medassist-ng/ai-service/internal/services"
)

const defaultProviderTimeout = 30 * time.Second

// HTTPProvider translates through an OpenAI-compatible responses endpoint.
type HTTPProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  services.Logger
}

type providerRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type providerResponse struct {
	Output []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func NewHTTPProvider(apiKey, baseURL, model string, logger services.Logger) (*HTTPProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("translation provider: api key is required")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("translation provider: base url is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &HTTPProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Timeout: defaultProviderTimeout,
		},
		logger: logger,
	}, nil
}

func (p *HTTPProvider) buildPrompt(text, targetLanguage, sourceLanguage string) string {
	target := languageNames[targetLanguage]
	var b strings.Builder
	if source, ok := languageNames[sourceLanguage]; ok {
		fmt.Fprintf(&b, "Translate this %s medical message to %s.", source, target)
	} else {
		fmt.Fprintf(&b, "Translate this medical message to %s.", target)
	}
	b.WriteString(" Keep these terms exactly as written: ")
	b.WriteString(strings.Join(medicalTerms, ", "))
	b.WriteString(". Return only the translation: ")
	b.WriteString(text)
	return b.String()
}

// Translate sends the translation prompt and retries server errors with
// linear backoff.
func (p *HTTPProvider) Translate(ctx context.Context, text, targetLanguage, sourceLanguage string) (string, error) {
	p.logger.Debug("starting provider translation",
		"target_language", targetLanguage, "source_language", sourceLanguage)

	jsonData, err := json.Marshal(providerRequest{
		Model: p.model,
		Input: p.buildPrompt(text, targetLanguage, sourceLanguage),
	})
	if err != nil {
		return "", fmt.Errorf("marshal translation request: %w", err)
	}

	var resp *http.Response
	maxRetries := 3
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/responses", bytes.NewBuffer(jsonData))
		if err != nil {
			return "", fmt.Errorf("create translation request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.apiKey)

		resp, err = p.client.Do(req)
		if err != nil {
			lastErr = err
			p.logger.Warn("translation request failed", "error", err, "attempt", attempt)
		} else if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			p.logger.Warn("translation server error", "status_code", resp.StatusCode, "attempt", attempt)
			resp.Body.Close()
			resp = nil
		} else {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}

	if resp == nil {
		return "", fmt.Errorf("translation request failed after %d attempts: %w", maxRetries, lastErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("translation API returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("translation API error: %s", decoded.Error.Message)
	}
	if len(decoded.Output) == 0 || len(decoded.Output[0].Content) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	translated := strings.TrimSpace(decoded.Output[0].Content[0].Text)
	translated = strings.Trim(translated, "\"'")
	if translated == "" {
		return "", fmt.Errorf("translation returned empty result")
	}

	p.logger.Debug("provider translation completed", "target_language", targetLanguage)
	return translated, nil
}

// File: internal/services/document/provider.go
package document

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/medassist-ng/ai-service/internal/services"
)

const defaultAnalyzeTimeout = 60 * time.Second

// HTTPProvider calls a document-intelligence REST endpoint for OCR.
type HTTPProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   services.Logger
}

type analyzeRequest struct {
	Base64Source string `json:"base64Source"`
}

type analyzeResponse struct {
	Content       string            `json:"content"`
	KeyValuePairs map[string]string `json:"key_value_pairs"`
	Tables        []Table           `json:"tables"`
	Pages         int               `json:"pages"`
	Confidence    float64           `json:"confidence"`
	Language      string            `json:"language"`
	Error         *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewHTTPProvider(apiKey, endpoint string, logger services.Logger) (*HTTPProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("document provider: api key is required")
	}
	if endpoint == "" {
		return nil, fmt.Errorf("document provider: endpoint is required")
	}
	return &HTTPProvider{
		apiKey:   apiKey,
		endpoint: strings.TrimRight(endpoint, "/"),
		client: &http.Client{
			Timeout: defaultAnalyzeTimeout,
		},
		logger: logger,
	}, nil
}

// Analyze submits the document bytes for OCR and retries server errors with
// linear backoff.
func (p *HTTPProvider) Analyze(ctx context.Context, data []byte) (Analysis, error) {
	p.logger.Debug("starting document analysis", "bytes", len(data))

	jsonData, err := json.Marshal(analyzeRequest{
		Base64Source: base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("marshal analyze request: %w", err)
	}

	var resp *http.Response
	maxRetries := 3
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/analyze", bytes.NewBuffer(jsonData))
		if err != nil {
			return Analysis{}, fmt.Errorf("create analyze request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Ocp-Apim-Subscription-Key", p.apiKey)

		resp, err = p.client.Do(req)
		if err != nil {
			lastErr = err
			p.logger.Warn("analyze request failed", "error", err, "attempt", attempt)
		} else if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			p.logger.Warn("analyze server error", "status_code", resp.StatusCode, "attempt", attempt)
			resp.Body.Close()
			resp = nil
		} else {
			break
		}

		select {
		case <-ctx.Done():
			return Analysis{}, ctx.Err()
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}

	if resp == nil {
		return Analysis{}, fmt.Errorf("analyze request failed after %d attempts: %w", maxRetries, lastErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Analysis{}, fmt.Errorf("document API returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Analysis{}, fmt.Errorf("decode analyze response: %w", err)
	}
	if decoded.Error != nil {
		return Analysis{}, fmt.Errorf("document API error: %s", decoded.Error.Message)
	}

	kvPairs := decoded.KeyValuePairs
	if kvPairs == nil {
		kvPairs = map[string]string{}
	}

	p.logger.Debug("document analysis completed",
		"pages", decoded.Pages, "confidence", decoded.Confidence)
	return Analysis{
		Text:          decoded.Content,
		KeyValuePairs: kvPairs,
		Tables:        decoded.Tables,
		Pages:         decoded.Pages,
		Confidence:    decoded.Confidence,
		Language:      decoded.Language,
	}, nil
}

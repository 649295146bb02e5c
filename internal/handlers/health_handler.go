// File: internal/handlers/health_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/medassist-ng/ai-service/internal/config"
)

const (
	serviceName    = "medassist-ai-service"
	serviceVersion = "1.0.0"
)

// HealthHandler reports service and provider status.
type HealthHandler struct {
	cfg       *config.Config
	startedAt time.Time
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg, startedAt: time.Now()}
}

// Health handles GET /api/v1/health. Provider checks are configuration
// based; the service stays healthy on local fallbacks when providers
// are absent.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components := map[string]interface{}{}

	if h.cfg.UseLLM && h.cfg.LLMAPIKey != "" {
		components["llm"] = map[string]string{
			"status": "configured",
			"model":  h.cfg.LLMModel,
		}
	} else {
		components["llm"] = map[string]string{
			"status": "disabled",
			"reason": "LLM disabled or no API key; rule-based pipeline active",
		}
	}

	if h.cfg.DocumentOCREndpoint != "" && h.cfg.DocumentOCRKey != "" {
		components["document_ocr"] = map[string]string{"status": "configured"}
	} else {
		components["document_ocr"] = map[string]string{"status": "not_configured"}
	}

	if h.cfg.TranslatorEndpoint != "" && h.cfg.TranslatorKey != "" {
		components["translator"] = map[string]string{
			"status": "configured",
			"region": h.cfg.TranslatorRegion,
		}
	} else {
		components["translator"] = map[string]string{"status": "not_configured"}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        serviceName,
		"version":        serviceVersion,
		"environment":    h.cfg.Environment,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"components":     components,
	})
}

// File: internal/handlers/message_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/medassist-ng/ai-service/internal/ratelimit"
	"github.com/medassist-ng/ai-service/internal/services/conversation"
	"github.com/medassist-ng/ai-service/internal/services/message"
)

// MessageHandler exposes the message processing pipeline over HTTP.
// Rate limiting here is keyed by patient ID rather than client IP:
// many patients reach the service through a shared clinic kiosk or
// SMS gateway, so IP limits would throttle the whole clinic at once.
type MessageHandler struct {
	service  *message.Service
	sessions *conversation.Manager
	limiter  *ratelimit.MemoryRateLimiter
}

func NewMessageHandler(service *message.Service, sessions *conversation.Manager, limiter *ratelimit.MemoryRateLimiter) *MessageHandler {
	return &MessageHandler{service: service, sessions: sessions, limiter: limiter}
}

// Process handles POST /api/v1/message/process.
func (h *MessageHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req message.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.PatientID = strings.TrimSpace(req.PatientID)
	if req.PatientID == "" {
		writeError(w, "patient_id is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, "message is required", http.StatusBadRequest)
		return
	}

	if h.limiter != nil {
		allowed, info := h.limiter.Allow("patient:" + req.PatientID)
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		if !allowed {
			log.Printf("[MessageHandler] Rate limited patient %s (banned: %v)", req.PatientID, info.Banned)
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", info.RetryAfter.Seconds()))
			}
			writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
				"error":      "Too many messages. Please wait a moment and try again.",
				"retryAfter": int(info.RetryAfter.Seconds()),
				"banned":     info.Banned,
			})
			return
		}
	}

	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}

	resp, err := h.service.Process(r.Context(), req)
	if err != nil {
		log.Printf("[MessageHandler] Pipeline error for patient %s: %v", req.PatientID, err)
		writeError(w, "Failed to process message", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /api/v1/message/session/{patient_id}. Staff use it
// to review the recent conversation with a patient.
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["patient_id"]
	if patientID == "" {
		writeError(w, "patient_id is required", http.StatusBadRequest)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	session, ok := h.sessions.GetSession(patientID)
	if !ok {
		writeError(w, "No active session for patient", http.StatusNotFound)
		return
	}

	history := h.sessions.History(patientID, limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"patient_id":    patientID,
		"session_id":    session.SessionID,
		"message_count": len(session.History),
		"history":       history,
	})
}

// ClearSession handles DELETE /api/v1/message/session/{patient_id}.
func (h *MessageHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["patient_id"]
	if patientID == "" {
		writeError(w, "patient_id is required", http.StatusBadRequest)
		return
	}

	if !h.sessions.ClearSession(patientID) {
		writeError(w, "No active session for patient", http.StatusNotFound)
		return
	}

	log.Printf("[MessageHandler] Cleared session for patient %s", patientID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared", "patient_id": patientID})
}

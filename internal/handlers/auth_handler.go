// File: internal/handlers/auth_handler.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/medassist-ng/ai-service/internal/services/admin"
)

type AuthHandler struct {
	authService *admin.AuthService
}

func NewAuthHandler(authService *admin.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a staff member and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	staff, token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	log.Printf("[AuthHandler] Staff login: %s (role: %s)", staff.Username, staff.Role)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"username": staff.Username,
		"role":     staff.Role,
	})
}

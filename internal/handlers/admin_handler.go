// File: internal/handlers/admin_handler.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/medassist-ng/ai-service/internal/domain"
	reportrepo "github.com/medassist-ng/ai-service/internal/repository/report"
	"github.com/medassist-ng/ai-service/internal/services/admin"
)

// AdminHandler serves the staff dashboard: clinic statistics, stored
// reports and staff account management.
type AdminHandler struct {
	authService  *admin.AuthService
	statsService *admin.StatsService
	reports      reportrepo.ReportRepository
}

func NewAdminHandler(authService *admin.AuthService, statsService *admin.StatsService, reports reportrepo.ReportRepository) *AdminHandler {
	return &AdminHandler{
		authService:  authService,
		statsService: statsService,
		reports:      reports,
	}
}

// Overview handles GET /api/v1/admin/stats.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.statsService.GetOverview(r.Context())
	if err != nil {
		log.Printf("[AdminHandler] Failed to build overview: %v", err)
		writeError(w, "Failed to load statistics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// ListReports handles GET /api/v1/admin/reports. Filter with patient_id
// or triage_level query parameters; results are paginated.
func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	offset := (page - 1) * limit

	patientID := r.URL.Query().Get("patient_id")
	level := r.URL.Query().Get("triage_level")

	var (
		reports []domain.TriageReport
		total   int64
		err     error
	)
	switch {
	case patientID != "":
		reports, total, err = h.reports.FindByPatientID(r.Context(), patientID, limit, offset)
	case level != "":
		reports, total, err = h.reports.FindByTriageLevel(r.Context(), level, limit, offset)
	default:
		writeError(w, "Provide a patient_id or triage_level filter", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("[AdminHandler] Failed to list reports: %v", err)
		writeError(w, "Failed to load reports", http.StatusInternalServerError)
		return
	}

	if reports == nil {
		reports = []domain.TriageReport{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// RedFlags handles GET /api/v1/admin/reports/red-flags.
func (h *AdminHandler) RedFlags(w http.ResponseWriter, r *http.Request) {
	_, limit := pagination(r)

	rows, err := h.statsService.RecentRedFlags(r.Context(), limit)
	if err != nil {
		log.Printf("[AdminHandler] Failed to list red flag reports: %v", err)
		writeError(w, "Failed to load reports", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports": rows,
		"count":   len(rows),
	})
}

// SafetyAudit handles GET /api/v1/admin/safety/audit.
func (h *AdminHandler) SafetyAudit(w http.ResponseWriter, r *http.Request) {
	_, limit := pagination(r)

	entries := h.statsService.SafetyEntries(limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// CreateStaff handles POST /api/v1/admin/staff.
func (h *AdminHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	staff, err := h.authService.CreateStaff(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("[AdminHandler] Created staff account: %s (role: %s)", staff.Username, staff.Role)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       staff.ID,
		"username": staff.Username,
		"role":     staff.Role,
	})
}

// pagination reads page and limit query parameters with defaults 1 and 10.
func pagination(r *http.Request) (page, limit int) {
	page, limit = 1, 10
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return page, limit
}

// File: internal/services/safety/audit.go
package safety

import (
	"sync"
	"time"

	"github.com/medassist-ng/ai-service/internal/domain"
)

// maxLoggedChars truncates free text in audit entries for privacy.
const maxLoggedChars = 200

// AuditEntry is one recorded safety violation.
type AuditEntry struct {
	Timestamp   time.Time              `json:"timestamp"`
	UserMessage string                 `json:"user_message"`
	Response    string                 `json:"ai_response"`
	Violations  []domain.ViolationType `json:"violations"`
	Action      domain.SafetyAction    `json:"action"`
}

// AuditStats aggregates the log by violation type and action taken.
type AuditStats struct {
	TotalViolations int            `json:"total_violations"`
	ByType          map[string]int `json:"by_type"`
	ByAction        map[string]int `json:"by_action"`
}

// AuditLog is the in-memory violation record. Safe for concurrent use.
type AuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// Record appends a violation entry, truncating message text.
func (a *AuditLog) Record(userMessage, response string, violations []domain.ViolationType, action domain.SafetyAction) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = append(a.entries, AuditEntry{
		Timestamp:   time.Now().UTC(),
		UserMessage: truncate(userMessage, maxLoggedChars),
		Response:    truncate(response, maxLoggedChars),
		Violations:  append([]domain.ViolationType{}, violations...),
		Action:      action,
	})
}

// Stats aggregates the current log.
func (a *AuditLog) Stats() AuditStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := AuditStats{
		ByType:   map[string]int{},
		ByAction: map[string]int{},
	}
	stats.TotalViolations = len(a.entries)

	for _, entry := range a.entries {
		for _, violation := range entry.Violations {
			stats.ByType[string(violation)]++
		}
		stats.ByAction[string(entry.Action)]++
	}
	return stats
}

// Entries returns a copy of the log.
func (a *AuditLog) Entries() []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]AuditEntry{}, a.entries...)
}

// Clear drops every recorded entry.
func (a *AuditLog) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

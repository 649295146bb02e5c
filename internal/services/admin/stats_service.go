// File: internal/services/admin/stats_service.go
package admin

import (
	"context"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/repository/report"
	"github.com/medassist-ng/ai-service/internal/services"
	"github.com/medassist-ng/ai-service/internal/services/conversation"
	"github.com/medassist-ng/ai-service/internal/services/safety"
)

// Overview is the admin dashboard snapshot.
type Overview struct {
	ActiveSessions   int               `json:"active_sessions"`
	TotalReports     int64             `json:"total_reports"`
	ReportsByLevel   map[string]int64  `json:"reports_by_level"`
	SafetyViolations safety.AuditStats `json:"safety_violations"`
}

// StatsService aggregates operational numbers for clinic staff: live
// session counts, stored report volumes and safety guardrail activity.
type StatsService struct {
	reports  report.ReportRepository
	sessions *conversation.Manager
	audit    *safety.AuditLog
	logger   services.Logger
}

func NewStatsService(
	reports report.ReportRepository,
	sessions *conversation.Manager,
	audit *safety.AuditLog,
	logger services.Logger,
) *StatsService {
	return &StatsService{
		reports:  reports,
		sessions: sessions,
		audit:    audit,
		logger:   logger,
	}
}

// GetOverview builds the dashboard snapshot.
func (s *StatsService) GetOverview(ctx context.Context) (*Overview, error) {
	total, err := s.reports.CountTotal(ctx)
	if err != nil {
		return nil, err
	}

	byLevel, err := s.reports.CountByLevel(ctx)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		ActiveSessions:   s.sessions.ActiveSessionCount(),
		TotalReports:     total,
		ReportsByLevel:   byLevel,
		SafetyViolations: s.audit.Stats(),
	}

	s.logger.Debug("admin overview built",
		"active_sessions", overview.ActiveSessions,
		"total_reports", overview.TotalReports,
		"violations", overview.SafetyViolations.TotalViolations)
	return overview, nil
}

// RecentRedFlags lists the latest red-flagged reports for the dashboard.
func (s *StatsService) RecentRedFlags(ctx context.Context, limit int) ([]domain.TriageReport, error) {
	return s.reports.FindRedFlagged(ctx, limit)
}

// SafetyEntries exposes the recent guardrail audit trail.
func (s *StatsService) SafetyEntries(limit int) []safety.AuditEntry {
	entries := s.audit.Entries()
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries
}

// File: internal/repository/report/interface.go
package report

import (
	"context"

	"github.com/medassist-ng/ai-service/internal/domain"
)

// ReportRepository handles persisted triage report operations.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.TriageReport) (*domain.TriageReport, error)
	FindByReportID(ctx context.Context, reportID string) (*domain.TriageReport, error)
	FindByPatientID(ctx context.Context, patientID string, limit, offset int) ([]domain.TriageReport, int64, error)
	FindByTriageLevel(ctx context.Context, level string, limit, offset int) ([]domain.TriageReport, int64, error)
	FindRedFlagged(ctx context.Context, limit int) ([]domain.TriageReport, error)
	CountByLevel(ctx context.Context) (map[string]int64, error)
	CountTotal(ctx context.Context) (int64, error)
}

// File: internal/repository/report/report_repository.go
package report

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/medassist-ng/ai-service/internal/domain"
)

var ErrReportNotFound = errors.New("report not found")

type gormReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &gormReportRepository{db: db}
}

func (r *gormReportRepository) Create(ctx context.Context, report *domain.TriageReport) (*domain.TriageReport, error) {
	if err := r.validateReportInput(report); err != nil {
		log.Printf("[ReportRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		log.Printf("[ReportRepository] Database error creating report %s: %v", report.ReportID, err)
		return nil, errors.New("database error creating report")
	}

	log.Printf("[ReportRepository] Report stored: %s (level: %s)", report.ReportID, report.TriageLevel)
	return report, nil
}

func (r *gormReportRepository) FindByReportID(ctx context.Context, reportID string) (*domain.TriageReport, error) {
	if reportID == "" {
		return nil, errors.New("report ID is required")
	}

	var report domain.TriageReport
	err := r.db.WithContext(ctx).Where("report_id = ?", reportID).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		log.Printf("[ReportRepository] Database error finding report %s: %v", reportID, err)
		return nil, errors.New("database query failed")
	}
	return &report, nil
}

func (r *gormReportRepository) FindByPatientID(ctx context.Context, patientID string, limit, offset int) ([]domain.TriageReport, int64, error) {
	if patientID == "" {
		return nil, 0, errors.New("patient ID is required")
	}
	limit, offset, err := normalizePage(limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.TriageReport{}).
		Where("patient_id = ?", patientID).Count(&total).Error; err != nil {
		log.Printf("[ReportRepository] Database error counting reports for patient %s: %v", patientID, err)
		return nil, 0, errors.New("database error counting reports")
	}

	var reports []domain.TriageReport
	err = r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		log.Printf("[ReportRepository] Database error finding reports for patient %s: %v", patientID, err)
		return nil, 0, errors.New("database error retrieving reports")
	}
	return reports, total, nil
}

func (r *gormReportRepository) FindByTriageLevel(ctx context.Context, level string, limit, offset int) ([]domain.TriageReport, int64, error) {
	if level == "" {
		return nil, 0, errors.New("triage level is required")
	}
	limit, offset, err := normalizePage(limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.TriageReport{}).
		Where("triage_level = ?", level).Count(&total).Error; err != nil {
		log.Printf("[ReportRepository] Database error counting %s reports: %v", level, err)
		return nil, 0, errors.New("database error counting reports")
	}

	var reports []domain.TriageReport
	err = r.db.WithContext(ctx).
		Where("triage_level = ?", level).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		log.Printf("[ReportRepository] Database error finding %s reports: %v", level, err)
		return nil, 0, errors.New("database error retrieving reports")
	}
	return reports, total, nil
}

func (r *gormReportRepository) FindRedFlagged(ctx context.Context, limit int) ([]domain.TriageReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var reports []domain.TriageReport
	err := r.db.WithContext(ctx).
		Where("red_flag = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		log.Printf("[ReportRepository] Database error finding red-flagged reports: %v", err)
		return nil, errors.New("database error retrieving red-flagged reports")
	}
	return reports, nil
}

func (r *gormReportRepository) CountByLevel(ctx context.Context) (map[string]int64, error) {
	type levelCount struct {
		TriageLevel string
		Count       int64
	}

	var rows []levelCount
	err := r.db.WithContext(ctx).Model(&domain.TriageReport{}).
		Select("triage_level, count(*) as count").
		Group("triage_level").
		Find(&rows).Error
	if err != nil {
		log.Printf("[ReportRepository] Database error counting reports by level: %v", err)
		return nil, errors.New("database error counting reports by level")
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.TriageLevel] = row.Count
	}
	return counts, nil
}

func (r *gormReportRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.TriageReport{}).Count(&count).Error; err != nil {
		log.Printf("[ReportRepository] Database error counting total reports: %v", err)
		return 0, errors.New("database error counting reports")
	}
	return count, nil
}

func (r *gormReportRepository) validateReportInput(report *domain.TriageReport) error {
	if report == nil {
		return errors.New("report cannot be nil")
	}
	if report.ReportID == "" {
		return errors.New("report ID is required")
	}
	if report.PatientID == "" {
		return errors.New("patient ID is required")
	}
	return nil
}

func normalizePage(limit, offset int) (int, int, error) {
	if limit <= 0 || limit > 1000 {
		return 0, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return 0, 0, errors.New("invalid offset: must be >= 0")
	}
	return limit, offset, nil
}

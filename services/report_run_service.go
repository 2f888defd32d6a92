package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ilumen-report/config"
	"ilumen-report/models"

	"gorm.io/gorm"
)

// DefaultLockName is the MySQL advisory lock guarding pipeline runs.
const DefaultLockName = "report_pipeline_job"

const maxErrorMessageLen = 1000

var ErrReportRunNotFound = errors.New("report run not found")

// ReportRunService records run metadata in report_runs.
type ReportRunService struct {
	db *gorm.DB
}

func NewReportRunService(db *gorm.DB) *ReportRunService {
	if db == nil {
		db = config.DB
	}
	return &ReportRunService{db: db}
}

func (s *ReportRunService) Start(ctx context.Context, runUUID, trigger string) (*models.ReportRun, error) {
	if trigger == "" {
		trigger = "unknown"
	}
	run := &models.ReportRun{
		RunUUID:       runUUID,
		TriggerSource: trigger,
		Status:        models.ReportRunStatusRunning,
	}
	if err := s.db.WithContext(persistentContext(ctx)).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (s *ReportRunService) MarkSuccess(ctx context.Context, runID uint, summary *ReportSummary) error {
	return s.finish(ctx, runID, models.ReportRunStatusSuccess, summary, nil)
}

func (s *ReportRunService) MarkFailure(ctx context.Context, runID uint, summary *ReportSummary, err error) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return s.finish(ctx, runID, models.ReportRunStatusFailed, summary, &msg)
}

func (s *ReportRunService) finish(ctx context.Context, runID uint, status string, summary *ReportSummary, errMsg *string) error {
	updates := map[string]interface{}{
		"status":      status,
		"finished_at": time.Now(),
	}
	if summary != nil {
		updates["organizations_processed"] = summary.Organizations
		updates["rows_written"] = summary.RowsWritten
		updates["rows_excluded"] = summary.RowsExcluded
		if summary.ProgressReportPath != "" {
			updates["progress_report_path"] = summary.ProgressReportPath
		}
	}
	if errMsg != nil {
		updates["error_message"] = truncateMessage(*errMsg)
	}

	res := s.db.WithContext(persistentContext(ctx)).
		Model(&models.ReportRun{}).
		Where("id = ?", runID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReportRunNotFound
	}
	return nil
}

// AcquireLock takes the named advisory lock without waiting. An empty name
// disables locking and returns a nil release func.
func (s *ReportRunService) AcquireLock(ctx context.Context, lockName string) (func() error, error) {
	if strings.TrimSpace(lockName) == "" {
		return nil, nil
	}

	var ok int
	if err := s.db.WithContext(ctx).Raw("SELECT GET_LOCK(?, 0)", lockName).Scan(&ok).Error; err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockName, err)
	}
	if ok != 1 {
		return nil, ErrReportAlreadyRunning
	}

	return func() error {
		var released int
		return s.db.WithContext(persistentContext(ctx)).Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&released).Error
	}, nil
}

func truncateMessage(msg string) string {
	if len(msg) <= maxErrorMessageLen {
		return msg
	}
	return msg[:maxErrorMessageLen-3] + "..."
}

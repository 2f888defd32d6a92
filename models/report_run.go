package models

import (
	"time"
)

const (
	ReportRunStatusRunning = "running"
	ReportRunStatusSuccess = "success"
	ReportRunStatusFailed  = "failed"
)

// ReportRun is the bookkeeping row of one pipeline run. It never holds report
// content.
type ReportRun struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	RunUUID string `json:"run_uuid" gorm:"column:run_uuid;type:char(36);uniqueIndex;not null"`

	TriggerSource string     `json:"trigger_source" gorm:"type:varchar(64);not null"`
	Status        string     `json:"status" gorm:"type:enum('running','success','failed');not null;default:'running'"`
	ErrorMessage  *string    `json:"error_message" gorm:"type:text"`
	StartedAt     time.Time  `json:"started_at" gorm:"column:started_at;autoCreateTime"`
	FinishedAt    *time.Time `json:"finished_at" gorm:"column:finished_at"`

	OrganizationsProcessed uint    `json:"organizations_processed" gorm:"column:organizations_processed;not null;default:0"`
	RowsWritten            uint    `json:"rows_written" gorm:"column:rows_written;not null;default:0"`
	RowsExcluded           uint    `json:"rows_excluded" gorm:"column:rows_excluded;not null;default:0"`
	ProgressReportPath     *string `json:"progress_report_path" gorm:"column:progress_report_path;type:varchar(512)"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (ReportRun) TableName() string { return "report_runs" }

package services

import (
	"context"
	"errors"

	"ilumen-report/config"
	"ilumen-report/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DemographicSource is the remote side of the pipeline.
type DemographicSource interface {
	RequestAccessToken(ctx context.Context, org config.Organization) (string, error)
	GetDemographicData(ctx context.Context, org config.Organization, token string) ([]models.OrganizationRecord, error)
}

// OrganizationSummary describes one organization's contribution to a run.
type OrganizationSummary struct {
	Organization       string   `json:"organization"`
	Companies          int      `json:"companies"`
	Rows               int      `json:"rows"`
	RowsExcluded       int      `json:"rows_excluded"`
	SynthesizedColumns []string `json:"synthesized_columns,omitempty"`
	CoercedValues      int      `json:"coerced_values"`
}

// ReportSummary summarises a completed run.
type ReportSummary struct {
	RunID              string                `json:"run_id"`
	Organizations      int                   `json:"organizations"`
	RowsWritten        int                   `json:"rows_written"`
	RowsExcluded       int                   `json:"rows_excluded"`
	ColumnsSynthesized int                   `json:"columns_synthesized"`
	CoercedValues      int                   `json:"coerced_values"`
	ProgressReportPath string                `json:"progress_report_path"`
	OriginalPath       string                `json:"original_path"`
	PerOrganization    []OrganizationSummary `json:"per_organization"`
}

// ReportRunInput controls a single run.
type ReportRunInput struct {
	Organizations []config.Organization
	TriggerSource string
	// LockName is the advisory lock taken when run bookkeeping is enabled.
	LockName string
}

// ReportPipelineService fetches every organization's demographic data and
// writes the combined report. Any failure aborts the run before files are
// written.
type ReportPipelineService struct {
	source   DemographicSource
	writer   *ReportWriter
	runs     *ReportRunService
	log      *zap.Logger
	newRunID func() string
}

// NewReportPipelineService constructs the pipeline. runs may be nil, which
// disables bookkeeping and locking.
func NewReportPipelineService(source DemographicSource, writer *ReportWriter, runs *ReportRunService, log *zap.Logger) *ReportPipelineService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportPipelineService{
		source:   source,
		writer:   writer,
		runs:     runs,
		log:      log,
		newRunID: func() string { return uuid.NewString() },
	}
}

// Run processes input.Organizations in order and writes the report.
func (s *ReportPipelineService) Run(ctx context.Context, input *ReportRunInput) (*ReportSummary, error) {
	if input == nil {
		return nil, errors.New("input is nil")
	}
	if err := validateOrganizations(input.Organizations); err != nil {
		return nil, err
	}

	summary := &ReportSummary{RunID: s.newRunID()}
	log := s.log.With(zap.String("run_id", summary.RunID))

	if s.runs != nil {
		release, err := s.runs.AcquireLock(ctx, input.LockName)
		if err != nil {
			return nil, err
		}
		if release != nil {
			defer func() {
				if relErr := release(); relErr != nil {
					log.Warn("failed to release report pipeline lock", zap.Error(relErr))
				}
			}()
		}
	}

	var run *models.ReportRun
	if s.runs != nil {
		var err error
		run, err = s.runs.Start(ctx, summary.RunID, input.TriggerSource)
		if err != nil {
			log.Warn("failed to record report run start", zap.Error(err))
			run = nil
		}
	}

	var finalErr error
	if run != nil {
		defer func() {
			if finalErr != nil {
				if err := s.runs.MarkFailure(ctx, run.ID, summary, finalErr); err != nil {
					log.Warn("failed to mark report run failure", zap.Error(err))
				}
				return
			}
			if err := s.runs.MarkSuccess(ctx, run.ID, summary); err != nil {
				log.Warn("failed to mark report run success", zap.Error(err))
			}
		}()
	}

	log.Info("starting report generation", zap.Int("organizations", len(input.Organizations)))

	var acc ReportAccumulator
	for _, org := range input.Organizations {
		report, err := s.processOrganization(ctx, log, org)
		if err != nil {
			log.Error("error processing organization", zap.String("organization", org.Key), zap.Error(err))
			finalErr = err
			return nil, err
		}
		acc = acc.Append(report)
	}

	final := acc.Assemble()
	files, err := s.writer.Write(final)
	if err != nil {
		log.Error("failed to write reports", zap.Error(err))
		finalErr = err
		return nil, err
	}

	for _, r := range acc.Reports() {
		summary.PerOrganization = append(summary.PerOrganization, OrganizationSummary{
			Organization:       r.Organization,
			Companies:          r.Companies,
			Rows:               r.Table.Len(),
			RowsExcluded:       r.RowsExcluded,
			SynthesizedColumns: r.SynthesizedColumns,
			CoercedValues:      len(r.Coercions),
		})
		summary.RowsExcluded += r.RowsExcluded
		summary.ColumnsSynthesized += len(r.SynthesizedColumns)
		summary.CoercedValues += len(r.Coercions)
	}
	summary.Organizations = acc.Len()
	summary.RowsWritten = final.Len()
	summary.ProgressReportPath = files.ProgressReport
	summary.OriginalPath = files.Original

	log.Info("progress report saved", zap.String("path", files.ProgressReport))
	log.Info("original format saved", zap.String("path", files.Original))
	return summary, nil
}

func (s *ReportPipelineService) processOrganization(ctx context.Context, log *zap.Logger, org config.Organization) (OrganizationReport, error) {
	log = log.With(zap.String("organization", org.Key))
	log.Info("processing organization")

	token, err := s.source.RequestAccessToken(ctx, org)
	if err != nil {
		return OrganizationReport{}, err
	}
	records, err := s.source.GetDemographicData(ctx, org, token)
	if err != nil {
		return OrganizationReport{}, err
	}

	report, err := BuildOrganizationReport(org, records)
	if err != nil {
		return OrganizationReport{}, err
	}

	for _, col := range report.SynthesizedColumns {
		log.Info("column not found in data, adding with default value",
			zap.String("column", col),
			zap.String("value", models.NotFound))
	}
	for _, c := range report.Coercions {
		log.Warn("period count is not numeric, using 0",
			zap.String("column", models.ColumnOrgTotalPeriodsQty),
			zap.Int("row", c.Row),
			zap.String("value", c.Value))
	}
	log.Info("organization processed",
		zap.Int("records", len(records)),
		zap.Int("rows", report.Table.Len()),
		zap.Int("rows_excluded", report.RowsExcluded))
	return report, nil
}

// BuildOrganizationReport turns one organization's records into its report
// rows: pivot, reconcile to the canonical columns, project to the report
// layout, drop excluded rows and compute Key, OrgTotalPeriodsQty and
// Has Data.
func BuildOrganizationReport(org config.Organization, records []models.OrganizationRecord) (OrganizationReport, error) {
	pivoted, err := PivotRecords(org.Key, records)
	if err != nil {
		return OrganizationReport{}, err
	}

	canonical, synthesized := ReconcileColumns(pivoted, models.CanonicalColumns)
	projected, _ := ProjectColumns(canonical)
	filtered, excluded := FilterExcludedRows(projected)
	computed, coercions := ComputeFields(filtered, org.Label())

	return OrganizationReport{
		Organization:       org.Key,
		Table:              computed,
		Companies:          pivoted.Len(),
		RowsExcluded:       excluded,
		SynthesizedColumns: synthesized,
		Coercions:          coercions,
	}, nil
}

func validateOrganizations(orgs []config.Organization) error {
	if len(orgs) == 0 {
		return &ConfigurationError{Field: "organizations", Reason: "no organizations configured"}
	}
	for _, org := range orgs {
		if org.Secret == "" {
			field := org.SecretEnv
			if field == "" {
				field = org.Key + "_SECRET"
			}
			return &ConfigurationError{Field: field, Reason: "missing required secret for organization " + org.Key}
		}
	}
	return nil
}

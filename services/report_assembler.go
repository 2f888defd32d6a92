package services

import (
	"ilumen-report/models"
)

// OrganizationReport is the finished, filtered report of one organization.
type OrganizationReport struct {
	Organization       string
	Table              *models.Table
	Companies          int
	RowsExcluded       int
	SynthesizedColumns []string
	Coercions          []Coercion
}

// ReportAccumulator collects organization reports in processing order.
// Append returns a new accumulator and leaves the receiver untouched.
type ReportAccumulator struct {
	reports []OrganizationReport
}

func (a ReportAccumulator) Append(r OrganizationReport) ReportAccumulator {
	next := make([]OrganizationReport, len(a.reports), len(a.reports)+1)
	copy(next, a.reports)
	return ReportAccumulator{reports: append(next, r)}
}

// Reports returns the collected reports in the order they were appended.
func (a ReportAccumulator) Reports() []OrganizationReport {
	return append([]OrganizationReport(nil), a.reports...)
}

// Len is the number of organizations collected.
func (a ReportAccumulator) Len() int {
	return len(a.reports)
}

// Assemble concatenates every organization's rows in append order into a
// single table with the report layout. Rows are not deduplicated.
func (a ReportAccumulator) Assemble() *models.Table {
	out := &models.Table{Columns: append([]string(nil), models.OutputColumns...)}
	for _, r := range a.reports {
		if r.Table == nil {
			continue
		}
		projected, _ := ProjectColumns(r.Table)
		out.Rows = append(out.Rows, projected.Rows...)
	}
	return out
}

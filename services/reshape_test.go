package services

import (
	"errors"
	"testing"

	"ilumen-report/config"
	"ilumen-report/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, demographic, value string) models.OrganizationRecord {
	return models.OrganizationRecord{
		OrgCompanyID:     models.CompanyID(id),
		Demographic:      demographic,
		DemographicValue: models.Text(value),
	}
}

func cell(t *testing.T, table *models.Table, row int, column string) string {
	t.Helper()
	v, ok := table.Value(row, column)
	require.True(t, ok, "missing %s at row %d", column, row)
	return v
}

func TestBuildOrganizationReport_SingleCompany(t *testing.T) {
	org := config.Organization{Key: "ORG_GFM", Secret: "s"}
	records := []models.OrganizationRecord{
		rec("1", "OrgName", "Acme"),
		rec("1", "OrgTotalPeriodsQty", "5"),
	}

	report, err := BuildOrganizationReport(org, records)
	require.NoError(t, err)

	table := report.Table
	require.Equal(t, 1, table.Len())
	assert.Equal(t, models.OutputColumns, table.Columns)
	assert.Equal(t, "ORG GFM", cell(t, table, 0, models.ColumnKey))
	assert.Equal(t, "Acme", cell(t, table, 0, models.ColumnOrgName))
	assert.Equal(t, "5", cell(t, table, 0, models.ColumnOrgTotalPeriodsQty))
	assert.Equal(t, "Yes", cell(t, table, 0, models.ColumnHasData))

	var notFound []string
	for _, col := range models.CanonicalColumns {
		if cell(t, table, 0, col) == models.NotFound {
			notFound = append(notFound, col)
		}
	}
	assert.Len(t, notFound, 11)
	assert.ElementsMatch(t, notFound, report.SynthesizedColumns)
	assert.Empty(t, report.Coercions)
}

func TestBuildOrganizationReport_NonNumericPeriods(t *testing.T) {
	org := config.Organization{Key: "ORG_GFM", Secret: "s"}
	report, err := BuildOrganizationReport(org, []models.OrganizationRecord{
		rec("7", "OrgName", "Beta"),
		rec("7", "OrgTotalPeriodsQty", "N/A"),
	})
	require.NoError(t, err)

	assert.Equal(t, "0", cell(t, report.Table, 0, models.ColumnOrgTotalPeriodsQty))
	assert.Equal(t, "No", cell(t, report.Table, 0, models.ColumnHasData))
	require.Len(t, report.Coercions, 1)
	assert.Equal(t, "N/A", report.Coercions[0].Value)
}

func TestBuildOrganizationReport_RowPerCompany(t *testing.T) {
	org := config.Organization{Key: "ORG_GFM", Secret: "s"}
	records := []models.OrganizationRecord{
		rec("10", "OrgName", "Ten"),
		rec("2", "OrgName", "Two"),
		rec("2", "Currency", "EUR"),
		rec("33", "Currency", "USD"),
		rec("10", "Unused", "x"),
	}

	report, err := BuildOrganizationReport(org, records)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Companies)
	require.Equal(t, 3, report.Table.Len())
	assert.Equal(t, "Two", cell(t, report.Table, 0, models.ColumnOrgName))
	assert.Equal(t, "Ten", cell(t, report.Table, 1, models.ColumnOrgName))
	assert.Equal(t, "", cell(t, report.Table, 2, models.ColumnOrgName), "missing cell is empty, not Not Found")
	assert.Equal(t, "", cell(t, report.Table, 1, models.ColumnCurrency))
	assert.False(t, report.Table.HasColumn("Unused"))

	for r := range report.Table.Rows {
		for _, col := range models.CanonicalColumns {
			v := cell(t, report.Table, r, col)
			assert.NotContains(t, []string{"NaN", "<nil>", "null"}, v)
		}
	}
}

func TestBuildOrganizationReport_DuplicatePair(t *testing.T) {
	org := config.Organization{Key: "ORG_GFM", Secret: "s"}
	_, err := BuildOrganizationReport(org, []models.OrganizationRecord{
		rec("1", "OrgName", "Acme"),
		rec("1", "OrgName", "Acme Again"),
	})

	var shapeErr *DataShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, "1", shapeErr.CompanyID)
	assert.Equal(t, "OrgName", shapeErr.Demographic)
	assert.ErrorIs(t, err, errDuplicatePair)
}

func TestBuildOrganizationReport_NoRecords(t *testing.T) {
	report, err := BuildOrganizationReport(config.Organization{Key: "ORG_GFM", Secret: "s"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Table.Len())
	assert.Equal(t, models.OutputColumns, report.Table.Columns)
	assert.Len(t, report.SynthesizedColumns, len(models.CanonicalColumns))
}

func TestPivotRecords_NullValueIsEmpty(t *testing.T) {
	table, err := PivotRecords("ORG", []models.OrganizationRecord{
		{OrgCompanyID: "1", Demographic: "OrgName"},
		rec("1", "BU", "North"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"BU", "OrgName"}, table.Columns)
	assert.Equal(t, [][]string{{"North", ""}}, table.Rows)
}

func TestFilterExcludedRows(t *testing.T) {
	tests := []struct {
		name    string
		orgName string
		kept    bool
	}{
		{name: "suffix", orgName: "RAL Survey Entity Test", kept: false},
		{name: "exact", orgName: "RAL Survey Entity", kept: false},
		{name: "case insensitive", orgName: "ral survey entity", kept: false},
		{name: "partial word", orgName: "Acme RAL", kept: true},
		{name: "empty", orgName: "", kept: true},
		{name: "missing", orgName: models.NotFound, kept: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &models.Table{
				Columns: []string{models.ColumnOrgName},
				Rows:    [][]string{{tt.orgName}},
			}
			out, removed := FilterExcludedRows(table)
			if tt.kept {
				assert.Equal(t, 1, out.Len())
				assert.Zero(t, removed)
			} else {
				assert.Zero(t, out.Len())
				assert.Equal(t, 1, removed)
			}
		})
	}
}

func TestProjectColumns_Idempotent(t *testing.T) {
	canonical, _ := ReconcileColumns(&models.Table{
		Columns: []string{models.ColumnOrgName, "Extra"},
		Rows:    [][]string{{"Acme", "x"}},
	}, models.CanonicalColumns)

	once, added := ProjectColumns(canonical)
	assert.Equal(t, []string{models.ColumnKey, models.ColumnHasData}, added)
	assert.Equal(t, models.NotFound, cell(t, once, 0, models.ColumnKey))

	twice, addedAgain := ProjectColumns(once)
	assert.Empty(t, addedAgain)
	assert.Equal(t, once, twice)
}

func TestCoercePeriodCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"5", 5, true},
		{" 12 ", 12, true},
		{"3.9", 3, true},
		{"-2", -2, true},
		{"0", 0, true},
		{"N/A", 0, false},
		{"", 0, false},
		{models.NotFound, 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := CoercePeriodCount(tt.raw)
		assert.Equal(t, tt.want, got, "value %q", tt.raw)
		assert.Equal(t, tt.ok, ok, "value %q", tt.raw)
	}
}

func TestComputeFields_HasDataMatchesPeriods(t *testing.T) {
	projected, _ := ProjectColumns(&models.Table{
		Columns: []string{models.ColumnOrgTotalPeriodsQty},
		Rows:    [][]string{{"4"}, {"0"}, {"-1"}, {"abc"}, {"1.5"}},
	})

	out, coercions := ComputeFields(projected, "ORG GFM")
	assert.Len(t, coercions, 1)
	for r := range out.Rows {
		qty, ok := CoercePeriodCount(cell(t, out, r, models.ColumnOrgTotalPeriodsQty))
		require.True(t, ok)
		assert.Equal(t, qty > 0, cell(t, out, r, models.ColumnHasData) == "Yes")
		assert.Equal(t, "ORG GFM", cell(t, out, r, models.ColumnKey))
	}
}

func TestReportAccumulator_AppendDoesNotMutate(t *testing.T) {
	first := OrganizationReport{Organization: "A", Table: &models.Table{
		Columns: models.OutputColumns,
		Rows:    [][]string{make([]string, len(models.OutputColumns))},
	}}
	second := OrganizationReport{Organization: "B", Table: &models.Table{
		Columns: models.OutputColumns,
		Rows:    [][]string{make([]string, len(models.OutputColumns)), make([]string, len(models.OutputColumns))},
	}}
	second.Table.Rows[0][0] = "B0"

	var empty ReportAccumulator
	one := empty.Append(first)
	two := one.Append(second)

	assert.Zero(t, empty.Len())
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, 2, two.Len())

	assembled := two.Assemble()
	assert.Equal(t, 3, assembled.Len())
	assert.Equal(t, "B0", assembled.Rows[1][0])
}

package models

// NotFound fills a column the feed did not provide.
const NotFound = "Not Found"

const (
	ColumnKey                      = "Key"
	ColumnHasData                  = "Has Data"
	ColumnOrgName                  = "OrgName"
	ColumnOrgCompanyID             = "OrgCompanyID"
	ColumnOrgTotalPeriodsQty       = "OrgTotalPeriodsQty"
	ColumnOrgQuarterlyPeriodQty    = "OrgQuarterlyPeriodQty"
	ColumnOrgMonthlyPeriodQty      = "OrgMonthlyPeriodQty"
	ColumnOrg13PeriodQty           = "Org13PeriodQty"
	ColumnCurrency                 = "Currency"
	ColumnDepartment               = "Department"
	ColumnOrgDataStatus            = "OrgDataStatus"
	ColumnAgreementSigned          = "AgreementSigned"
	ColumnOrgCountry               = "OrgCountry"
	ColumnBU                       = "BU"
	ColumnPeerCurrentPeriodDisplay = "PeerCurrentPeriodDisplay"
)

// CanonicalColumns is the attribute set every organization row carries after
// reshaping, in reshape order.
var CanonicalColumns = []string{
	ColumnOrgTotalPeriodsQty,
	ColumnOrgQuarterlyPeriodQty,
	ColumnOrgMonthlyPeriodQty,
	ColumnOrg13PeriodQty,
	ColumnOrgName,
	ColumnOrgCompanyID,
	ColumnCurrency,
	ColumnDepartment,
	ColumnOrgDataStatus,
	ColumnAgreementSigned,
	ColumnOrgCountry,
	ColumnBU,
	ColumnPeerCurrentPeriodDisplay,
}

// OutputColumns is the report layout. It is also the header of original.csv.
var OutputColumns = []string{
	ColumnKey,
	ColumnDepartment,
	ColumnOrgName,
	ColumnOrgCompanyID,
	ColumnCurrency,
	ColumnAgreementSigned,
	ColumnOrgCountry,
	ColumnBU,
	ColumnOrgDataStatus,
	ColumnHasData,
	ColumnOrgTotalPeriodsQty,
	ColumnOrgQuarterlyPeriodQty,
	ColumnOrgMonthlyPeriodQty,
	ColumnOrg13PeriodQty,
	ColumnPeerCurrentPeriodDisplay,
}

// ProgressReportHeaders label OutputColumns positionally in the progress
// report.
var ProgressReportHeaders = []string{
	"iLumen Site",
	"Franchisee Name",
	"Store Name",
	"AIS Store ID",
	"Currency",
	"AgreementSigned",
	"Country",
	"BU",
	"OrgDataStatus",
	"Has Data",
	"OrgTotalPeriodsQty",
	"OrgQuarterlyPeriodQty",
	"OrgMonthlyPeriodQty",
	"Org13PeriodQty",
	"PeerCurrentPeriodDisplay",
}

// Table is a small column-ordered frame of text cells. Every row has exactly
// len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Value returns the cell of row at column name.
func (t *Table) Value(row int, name string) (string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return "", false
	}
	return t.Rows[row][idx], true
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

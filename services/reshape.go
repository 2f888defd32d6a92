package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"ilumen-report/models"
)

// ExcludedOrgNamePattern marks internal survey organizations that never
// appear in a report. Matching is a case-insensitive substring test.
const ExcludedOrgNamePattern = "RAL Survey Entity"

// PivotRecords reshapes long-form records into one row per orgCompanyID with
// one column per demographic. Rows are ordered by company id, columns by
// name. Cells with no record, or a null value, are empty. A repeated
// (orgCompanyID, demographic) pair is a DataShapeError.
func PivotRecords(orgKey string, records []models.OrganizationRecord) (*models.Table, error) {
	type cellKey struct {
		company     models.CompanyID
		demographic string
	}

	cells := make(map[cellKey]models.DemographicValue, len(records))
	companies := make(map[models.CompanyID]struct{})
	demographics := make(map[string]struct{})

	for _, rec := range records {
		key := cellKey{company: rec.OrgCompanyID, demographic: rec.Demographic}
		if _, dup := cells[key]; dup {
			return nil, &DataShapeError{
				Organization: orgKey,
				CompanyID:    string(rec.OrgCompanyID),
				Demographic:  rec.Demographic,
				Err:          errDuplicatePair,
			}
		}
		cells[key] = rec.DemographicValue
		companies[rec.OrgCompanyID] = struct{}{}
		demographics[rec.Demographic] = struct{}{}
	}

	columns := make([]string, 0, len(demographics))
	for d := range demographics {
		columns = append(columns, d)
	}
	sort.Strings(columns)

	ids := make([]models.CompanyID, 0, len(companies))
	for id := range companies {
		ids = append(ids, id)
	}
	sortCompanyIDs(ids)

	table := &models.Table{Columns: columns, Rows: make([][]string, 0, len(ids))}
	for _, id := range ids {
		row := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := cells[cellKey{company: id, demographic: col}]; ok && v.Valid {
				row[i] = v.Text
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// sortCompanyIDs orders numeric ids numerically and places them before
// non-numeric ids, which sort lexically.
func sortCompanyIDs(ids []models.CompanyID) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, aErr := strconv.ParseInt(string(ids[i]), 10, 64)
		b, bErr := strconv.ParseInt(string(ids[j]), 10, 64)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}

// ReconcileColumns returns a copy of t laid out exactly as columns. Columns
// that t lacks are filled with models.NotFound and reported in the returned
// slice, in columns order. Columns not listed are dropped. Reconciling an
// already conformant table returns an equal table and no additions.
func ReconcileColumns(t *models.Table, columns []string) (*models.Table, []string) {
	var added []string
	source := make([]int, len(columns))
	for i, col := range columns {
		source[i] = t.ColumnIndex(col)
		if source[i] < 0 {
			added = append(added, col)
		}
	}

	out := &models.Table{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for r, row := range t.Rows {
		next := make([]string, len(columns))
		for i, src := range source {
			if src < 0 {
				next[i] = models.NotFound
				continue
			}
			next[i] = row[src]
		}
		out.Rows[r] = next
	}
	return out, added
}

// ProjectColumns reconciles t against the report layout.
func ProjectColumns(t *models.Table) (*models.Table, []string) {
	return ReconcileColumns(t, models.OutputColumns)
}

// FilterExcludedRows drops rows whose OrgName contains
// ExcludedOrgNamePattern, ignoring case. Rows without an OrgName are kept.
func FilterExcludedRows(t *models.Table) (*models.Table, int) {
	idx := t.ColumnIndex(models.ColumnOrgName)
	if idx < 0 {
		return t.Clone(), 0
	}

	pattern := strings.ToLower(ExcludedOrgNamePattern)
	out := &models.Table{Columns: append([]string(nil), t.Columns...)}
	removed := 0
	for _, row := range t.Rows {
		if strings.Contains(strings.ToLower(row[idx]), pattern) {
			removed++
			continue
		}
		out.Rows = append(out.Rows, append([]string(nil), row...))
	}
	return out, removed
}

// Coercion records a period count that could not be read as a number.
type Coercion struct {
	Row   int
	Value string
}

// ComputeFields sets Key to label, rewrites OrgTotalPeriodsQty as an integer
// and derives Has Data from it. Values that are not numeric become 0 and are
// returned as coercions. t must carry the report layout.
func ComputeFields(t *models.Table, label string) (*models.Table, []Coercion) {
	out := t.Clone()
	keyIdx := out.ColumnIndex(models.ColumnKey)
	qtyIdx := out.ColumnIndex(models.ColumnOrgTotalPeriodsQty)
	hasIdx := out.ColumnIndex(models.ColumnHasData)

	var coercions []Coercion
	for r, row := range out.Rows {
		if keyIdx >= 0 {
			row[keyIdx] = label
		}
		if qtyIdx < 0 {
			continue
		}
		qty, ok := CoercePeriodCount(row[qtyIdx])
		if !ok {
			coercions = append(coercions, Coercion{Row: r, Value: row[qtyIdx]})
		}
		row[qtyIdx] = strconv.FormatInt(qty, 10)
		if hasIdx >= 0 {
			row[hasIdx] = HasData(qty)
		}
	}
	return out, coercions
}

// CoercePeriodCount reads a period count. Decimal values are truncated toward
// zero. Anything else, including blanks and models.NotFound, is 0 with ok
// false.
func CoercePeriodCount(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// HasData is "Yes" for a positive period count and "No" otherwise.
func HasData(periods int64) string {
	if periods > 0 {
		return "Yes"
	}
	return "No"
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationRecord_Decode(t *testing.T) {
	payload := `[
		{"orgCompanyID": 101, "demographic": "OrgName", "demographicValue": "Acme"},
		{"orgCompanyID": "102", "demographic": "OrgTotalPeriodsQty", "demographicValue": 12},
		{"orgCompanyID": 103, "demographic": "AgreementSigned", "demographicValue": true},
		{"orgCompanyID": 104, "demographic": "BU", "demographicValue": null},
		{"orgCompanyID": 105, "demographic": "Currency"}
	]`

	var records []OrganizationRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &records))
	require.Len(t, records, 5)

	assert.Equal(t, CompanyID("101"), records[0].OrgCompanyID)
	assert.Equal(t, Text("Acme"), records[0].DemographicValue)
	assert.Equal(t, CompanyID("102"), records[1].OrgCompanyID)
	assert.Equal(t, Text("12"), records[1].DemographicValue)
	assert.Equal(t, Text("true"), records[2].DemographicValue)
	assert.False(t, records[3].DemographicValue.Valid)
	assert.False(t, records[4].DemographicValue.Valid)
}

func TestCompanyID_RejectsNull(t *testing.T) {
	var rec OrganizationRecord
	err := json.Unmarshal([]byte(`{"orgCompanyID": null, "demographic": "OrgName"}`), &rec)
	assert.Error(t, err)
}

func TestTable_ValueAndClone(t *testing.T) {
	table := &Table{Columns: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}}

	v, ok := table.Value(0, "B")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	_, ok = table.Value(0, "C")
	assert.False(t, ok)
	_, ok = table.Value(1, "A")
	assert.False(t, ok)

	clone := table.Clone()
	clone.Rows[0][0] = "changed"
	assert.Equal(t, "1", table.Rows[0][0])
}

func TestColumnLayouts(t *testing.T) {
	assert.Len(t, CanonicalColumns, 13)
	assert.Len(t, OutputColumns, 15)
	assert.Len(t, ProgressReportHeaders, len(OutputColumns))

	output := make(map[string]bool, len(OutputColumns))
	for _, c := range OutputColumns {
		output[c] = true
	}
	for _, c := range CanonicalColumns {
		assert.True(t, output[c], "canonical column %s missing from output layout", c)
	}
}

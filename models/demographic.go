package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CompanyID identifies an organization row in the demographic feed. The API
// sends it as a number, older payloads as a string; both decode to the same
// textual form.
type CompanyID string

func (id *CompanyID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("orgCompanyID is null")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = CompanyID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("orgCompanyID: %w", err)
	}
	*id = CompanyID(n.String())
	return nil
}

// DemographicValue is a single cell value. Valid is false when the API sent
// null, which the reshaper treats as a missing cell.
type DemographicValue struct {
	Text  string
	Valid bool
}

// Text returns a present value holding s.
func Text(s string) DemographicValue {
	return DemographicValue{Text: s, Valid: true}
}

func (v *DemographicValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = DemographicValue{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		b, _ := strconv.ParseBool(string(data))
		*v = Text(strconv.FormatBool(b))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("demographicValue: %w", err)
		}
		*v = Text(n.String())
	}
	return nil
}

// OrganizationRecord is one (organization, attribute) pair as returned by
// GetDemographicData.
type OrganizationRecord struct {
	OrgCompanyID     CompanyID        `json:"orgCompanyID"`
	Demographic      string           `json:"demographic"`
	DemographicValue DemographicValue `json:"demographicValue"`
}

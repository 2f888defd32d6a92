package services

import (
	"errors"
	"fmt"

	"ilumen-report/config"
)

// ConfigurationError is raised before any network call when a required
// setting or organization secret is missing.
type ConfigurationError = config.ConfigurationError

// ErrReportAlreadyRunning is returned when another run holds the pipeline lock.
var ErrReportAlreadyRunning = errors.New("report pipeline already running")

// AuthenticationError indicates the access token request failed.
type AuthenticationError struct {
	Organization string
	StatusCode   int
	Err          error
}

func (e *AuthenticationError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed for %s: status %d: %v", e.Organization, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("authentication failed for %s: %v", e.Organization, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FetchError indicates the demographic data request failed or returned a
// body that could not be decoded.
type FetchError struct {
	Organization string
	StatusCode   int
	Err          error
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch demographic data for %s: status %d: %v", e.Organization, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch demographic data for %s: %v", e.Organization, e.Err)
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DataShapeError indicates the fetched records could not be reshaped, most
// often because an (orgCompanyID, demographic) pair occurred twice.
type DataShapeError struct {
	Organization string
	CompanyID    string
	Demographic  string
	Err          error
}

func (e *DataShapeError) Error() string {
	if e == nil {
		return ""
	}
	if e.CompanyID != "" {
		return fmt.Sprintf("reshape %s: company %s demographic %q: %v", e.Organization, e.CompanyID, e.Demographic, e.Err)
	}
	return fmt.Sprintf("reshape %s: %v", e.Organization, e.Err)
}

func (e *DataShapeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IOError indicates a report file could not be written.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// errDuplicatePair is wrapped by DataShapeError for repeated pivot keys.
var errDuplicatePair = errors.New("duplicate (orgCompanyID, demographic) pair")

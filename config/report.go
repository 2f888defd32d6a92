package config

import (
	"strings"
	"time"
)

const (
	DefaultIlumenBaseURL = "https://app.ilumen.biz/WebApi"
	DefaultReportsDir    = "csv_reports"
	DefaultTokenTimeout  = 30 * time.Second
	DefaultDataTimeout   = 30 * time.Second
)

// ReportConfig holds the settings of a single pipeline run.
type ReportConfig struct {
	BaseURL      string
	TokenTimeout time.Duration
	DataTimeout  time.Duration
	ReportsDir   string
}

// LoadReportConfig reads the pipeline settings from the environment.
func LoadReportConfig() (*ReportConfig, error) {
	tokenTimeout, err := getEnvDuration("ILUMEN_TOKEN_TIMEOUT", DefaultTokenTimeout)
	if err != nil {
		return nil, err
	}
	dataTimeout, err := getEnvDuration("ILUMEN_DATA_TIMEOUT", DefaultDataTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &ReportConfig{
		BaseURL:      strings.TrimRight(GetEnvDefault("ILUMEN_BASE_URL", DefaultIlumenBaseURL), "/"),
		TokenTimeout: tokenTimeout,
		DataTimeout:  dataTimeout,
		ReportsDir:   GetEnvDefault("REPORTS_DIR", DefaultReportsDir),
	}
	return cfg, nil
}

package config

import "fmt"

// ConfigurationError reports a missing or malformed configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

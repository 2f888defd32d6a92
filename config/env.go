package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file from the working directory into the process
// environment. A missing file is not an error for the caller to act on; the
// returned error only tells it whether to log that variables come from the
// real environment.
func LoadEnv() error {
	return godotenv.Load()
}

// GetEnvDefault returns the trimmed value of key, or defVal when it is unset
// or blank.
func GetEnvDefault(key, defVal string) string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return defVal
	}
	return strings.TrimSpace(val)
}

func getEnvDuration(key string, defVal time.Duration) (time.Duration, error) {
	raw := GetEnvDefault(key, "")
	if raw == "" {
		return defVal, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &ConfigurationError{Field: key, Reason: "invalid duration " + raw}
	}
	if d <= 0 {
		return 0, &ConfigurationError{Field: key, Reason: "duration must be positive"}
	}
	return d, nil
}

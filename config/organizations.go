package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultOrganizationKey is the organization processed when no
// ORGANIZATIONS_FILE is configured.
const DefaultOrganizationKey = "ORG_GFM"

// Organization is one configured tenant together with its resolved secret.
type Organization struct {
	Key       string `yaml:"key"`
	SecretEnv string `yaml:"secret_env"`
	Secret    string `yaml:"-"`
}

// Label is the human readable name written to the Key column.
func (o Organization) Label() string {
	return strings.ReplaceAll(o.Key, "_", " ")
}

type organizationsFile struct {
	Organizations []Organization `yaml:"organizations"`
}

// LoadOrganizations returns the configured organizations in processing order
// with their secrets resolved from the environment. Every organization must
// have a non-empty secret.
func LoadOrganizations() ([]Organization, error) {
	path := GetEnvDefault("ORGANIZATIONS_FILE", "")

	var orgs []Organization
	if path == "" {
		orgs = []Organization{{Key: DefaultOrganizationKey}}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigurationError{Field: "ORGANIZATIONS_FILE", Reason: err.Error()}
		}
		parsed, err := ParseOrganizations(data)
		if err != nil {
			return nil, err
		}
		orgs = parsed
	}

	for i := range orgs {
		if orgs[i].SecretEnv == "" {
			orgs[i].SecretEnv = orgs[i].Key + "_SECRET"
		}
		orgs[i].Secret = strings.TrimSpace(os.Getenv(orgs[i].SecretEnv))
		if orgs[i].Secret == "" {
			return nil, &ConfigurationError{
				Field:  orgs[i].SecretEnv,
				Reason: fmt.Sprintf("missing required secret for organization %s", orgs[i].Key),
			}
		}
	}
	return orgs, nil
}

// ParseOrganizations decodes an organizations YAML document. Secrets are not
// resolved.
func ParseOrganizations(data []byte) ([]Organization, error) {
	var file organizationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ConfigurationError{Field: "ORGANIZATIONS_FILE", Reason: err.Error()}
	}
	if len(file.Organizations) == 0 {
		return nil, &ConfigurationError{Field: "ORGANIZATIONS_FILE", Reason: "no organizations listed"}
	}

	seen := make(map[string]struct{}, len(file.Organizations))
	for i := range file.Organizations {
		org := &file.Organizations[i]
		org.Key = strings.TrimSpace(org.Key)
		org.SecretEnv = strings.TrimSpace(org.SecretEnv)
		if org.Key == "" {
			return nil, &ConfigurationError{Field: "ORGANIZATIONS_FILE", Reason: fmt.Sprintf("organization %d has no key", i+1)}
		}
		if _, dup := seen[org.Key]; dup {
			return nil, &ConfigurationError{Field: "ORGANIZATIONS_FILE", Reason: "duplicate organization key " + org.Key}
		}
		seen[org.Key] = struct{}{}
	}
	return file.Organizations, nil
}

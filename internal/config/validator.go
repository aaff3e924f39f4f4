package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the ENV_SCHEMA_VERSION this build understands
const ExpectedEnvSchemaVersion = "1.0"

// requirement makes vars mandatory when the selector variable has one of
// the listed values. An empty selector value counts as def.
type requirement struct {
	selector string
	def      string
	when     []string
	vars     []string
}

var requirements = []requirement{
	{vars: []string{"API_KEY"}},
	{selector: "STORAGE_BACKEND", def: StorageBackendPostgres, when: []string{StorageBackendPostgres},
		vars: []string{"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME"}},
	{selector: "RANDOMNESS_PROVIDER", def: ProviderSimulator, when: []string{ProviderQuantum},
		vars: []string{"QUANTUM_SERVICE_URL"}},
	{selector: "VERIFICATION_PROVIDER", def: ProviderSimulator, when: []string{ProviderBlockchain},
		vars: []string{"BLOCKCHAIN_SERVICE_URL"}},
}

func (r requirement) applies() bool {
	if r.selector == "" {
		return true
	}
	v := strings.ToLower(os.Getenv(r.selector))
	if v == "" {
		v = r.def
	}
	for _, w := range r.when {
		if v == w {
			return true
		}
	}
	return false
}

// ValidateEnv checks the env schema version and that every variable the
// selected backends need is present.
func ValidateEnv() error {
	switch got := os.Getenv("ENV_SCHEMA_VERSION"); got {
	case ExpectedEnvSchemaVersion:
	case "":
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set (expected %s); add it to your .env file", ExpectedEnvSchemaVersion)
	default:
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s; your .env file may be outdated", ExpectedEnvSchemaVersion, got)
	}

	var missing []string
	for _, r := range requirements {
		if !r.applies() {
			continue
		}
		for _, v := range r.vars {
			if os.Getenv(v) == "" {
				missing = append(missing, v)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// placeholders are the sample values shipped in .env.example
var placeholders = map[string]string{
	"DB_PASSWORD": "change_this_secure_password",
	"API_KEY":     "generate_with_openssl_rand_hex_32",
}

// ValidateEnvWithWarnings runs ValidateEnv and then reports settings that
// work but should not reach production.
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string
	for _, key := range []string{"API_KEY", "DB_PASSWORD"} {
		if os.Getenv(key) == placeholders[key] {
			warnings = append(warnings, key+" still has the example value from .env.example")
		}
	}

	if os.Getenv("ENVIRONMENT") == "prod" {
		if p := strings.ToLower(os.Getenv("RANDOMNESS_PROVIDER")); p == "" || p == ProviderSimulator {
			warnings = append(warnings, "RANDOMNESS_PROVIDER is the simulator in prod; winning numbers will not come from the quantum service")
		}
		if p := strings.ToLower(os.Getenv("VERIFICATION_PROVIDER")); p == "" || p == ProviderSimulator {
			warnings = append(warnings, "VERIFICATION_PROVIDER is the simulator in prod; results will not be attested on chain")
		}
	}
	return warnings, nil
}

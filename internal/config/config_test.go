package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests configuration loading from environment
func TestLoad(t *testing.T) {
	t.Run("loads config with defaults when no env vars set", func(t *testing.T) {
		clearEnvVars(t)
		// Must set API_KEY or it fails validation
		t.Setenv("API_KEY", "test-key")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port, "Should use default port")
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, "postgres", cfg.DBUser)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "test-key", cfg.APIKey)
		assert.Equal(t, StorageBackendPostgres, cfg.StorageBackend)
		assert.Equal(t, ProviderSimulator, cfg.RandomnessProvider)
		assert.Equal(t, ProviderSimulator, cfg.VerificationProvider)
		assert.Equal(t, 3, cfg.RandomnessMaxAttempts)
		assert.True(t, cfg.RandomnessUnique)
		assert.True(t, cfg.DBAutoMigrate)
		assert.Equal(t, DefaultDBMaxConns, cfg.DBMaxConns)
		assert.Equal(t, DefaultVerificationSweepInterval, cfg.VerificationSweepInterval)
	})

	t.Run("loads config from environment variables", func(t *testing.T) {
		clearEnvVars(t)

		t.Setenv("PORT", "3000")
		t.Setenv("API_KEY", "custom-api-key")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DB_USER", "customuser")
		t.Setenv("DB_PASSWORD", "custompass")
		t.Setenv("DB_HOST", "db.example.com")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("DB_NAME", "customdb")
		t.Setenv("STORAGE_BACKEND", "MEMORY")
		t.Setenv("RANDOMNESS_PROVIDER", "quantum")
		t.Setenv("QUANTUM_SERVICE_URL", "http://quantum:3001")
		t.Setenv("VERIFICATION_PROVIDER", "blockchain")
		t.Setenv("RANDOMNESS_TIMEOUT", "750ms")
		t.Setenv("QUANTUM_RATE_LIMIT", "2.5")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, "custom-api-key", cfg.APIKey)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "production", cfg.Environment)
		assert.Equal(t, "customuser", cfg.DBUser)
		assert.Equal(t, "custompass", cfg.DBPassword)
		assert.Equal(t, "db.example.com", cfg.DBHost)
		assert.Equal(t, "5433", cfg.DBPort)
		assert.Equal(t, "customdb", cfg.DBName)
		assert.Equal(t, StorageBackendMemory, cfg.StorageBackend)
		assert.Equal(t, ProviderQuantum, cfg.RandomnessProvider)
		assert.Equal(t, "http://quantum:3001", cfg.QuantumServiceURL)
		assert.Equal(t, ProviderBlockchain, cfg.VerificationProvider)
		assert.Equal(t, 750*time.Millisecond, cfg.RandomnessTimeout)
		assert.InDelta(t, 2.5, cfg.QuantumRateLimit, 0.0001)
	})

	t.Run("fails when API_KEY missing", func(t *testing.T) {
		clearEnvVars(t)

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "API_KEY")
	})

	t.Run("fails on invalid port", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "k")
		t.Setenv("PORT", "eighty")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid PORT value")
	})

	invalid := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"unknown storage backend", "STORAGE_BACKEND", "sqlite", "STORAGE_BACKEND"},
		{"unknown randomness provider", "RANDOMNESS_PROVIDER", "dice", "RANDOMNESS_PROVIDER"},
		{"unknown verification provider", "VERIFICATION_PROVIDER", "notary", "VERIFICATION_PROVIDER"},
		{"zero randomness attempts", "RANDOMNESS_MAX_ATTEMPTS", "0", "RANDOMNESS_MAX_ATTEMPTS"},
		{"zero workers", "WORKER_COUNT", "0", "WORKER_COUNT"},
		{"zero max numbers", "MAX_NUMBERS_PER_DRAW", "0", "MAX_NUMBERS_PER_DRAW"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			t.Setenv("API_KEY", "k")
			t.Setenv(tt.key, tt.val)

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{
		DBUser:     "u",
		DBPassword: "p",
		DBHost:     "h",
		DBPort:     "1",
		DBName:     "d",
	}
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=disable", cfg.GetDBConnString())
}

var managedEnvVars = []string{
	"PORT", "API_KEY", "LOG_LEVEL", "LOG_FORMAT", "ENVIRONMENT", "SERVICE_NAME", "VERSION",
	"STORAGE_BACKEND", "DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME",
	"DB_MAX_CONNS", "DB_MAX_CONN_IDLE_TIME", "DB_MAX_CONN_LIFETIME", "DB_AUTO_MIGRATE",
	"RANDOMNESS_PROVIDER", "QUANTUM_SERVICE_URL", "QUANTUM_RATE_LIMIT", "QUANTUM_RATE_BURST",
	"RANDOMNESS_UNIQUE", "RANDOMNESS_MAX_ATTEMPTS", "RANDOMNESS_BACKOFF", "RANDOMNESS_TIMEOUT",
	"MAX_NUMBERS_PER_DRAW", "VERIFICATION_PROVIDER", "BLOCKCHAIN_SERVICE_URL",
	"VERIFICATION_TIMEOUT", "VERIFICATION_MAX_RETRIES", "VERIFICATION_RETRY_DELAY",
	"VERIFICATION_SWEEP_INTERVAL", "VERIFICATION_CACHE_SIZE", "VERIFICATION_CACHE_TTL",
	"EVENT_MAX_RETRIES", "EVENT_RETRY_DELAY", "DEAD_LETTER_PATH", "WORKER_COUNT",
	"WORKER_QUEUE_SIZE", "ENV_SCHEMA_VERSION", "LOG_DIR", "TRUSTED_PROXIES", "VERIFICATION_AUTO_VERIFY",
}

// clearEnvVars unsets every variable Load reads, restoring them after the test
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range managedEnvVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

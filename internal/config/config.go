package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string
	ServiceName string
	Version     string
	APIKey      string // API key for authentication
	LogDir      string // session log files are written here when set

	// TrustedProxies may set X-Forwarded-For
	TrustedProxies []string

	StorageBackend    string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration
	DBAutoMigrate     bool

	RandomnessProvider    string
	QuantumServiceURL     string
	QuantumRateLimit      float64 // requests per second, 0 disables limiting
	QuantumRateBurst      int
	RandomnessUnique      bool
	RandomnessMaxAttempts int
	RandomnessBackoff     time.Duration
	RandomnessTimeout     time.Duration
	MaxNumbersPerDraw     int

	VerificationProvider      string
	BlockchainServiceURL      string
	VerificationTimeout       time.Duration
	VerificationMaxRetries    int
	VerificationRetryDelay    time.Duration
	VerificationSweepInterval time.Duration
	VerificationCacheSize     int
	VerificationCacheTTL      time.Duration
	VerificationAutoVerify    bool // simulator only

	EventMaxRetries int
	EventRetryDelay time.Duration
	DeadLetterPath  string

	WorkerCount     int
	WorkerQueueSize int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),
		APIKey:      getEnv("API_KEY", ""),
		LogDir:      getEnv("LOG_DIR", ""),

		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		StorageBackend:    strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendPostgres)),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "qupot"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),
		DBAutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),

		RandomnessProvider:    strings.ToLower(getEnv("RANDOMNESS_PROVIDER", ProviderSimulator)),
		QuantumServiceURL:     getEnv("QUANTUM_SERVICE_URL", DefaultQuantumServiceURL),
		QuantumRateLimit:      getEnvAsFloat("QUANTUM_RATE_LIMIT", DefaultQuantumRateLimit),
		QuantumRateBurst:      getEnvAsInt("QUANTUM_RATE_BURST", DefaultQuantumRateBurst),
		RandomnessUnique:      getEnvAsBool("RANDOMNESS_UNIQUE", true),
		RandomnessMaxAttempts: getEnvAsInt("RANDOMNESS_MAX_ATTEMPTS", DefaultRandomnessMaxAttempts),
		RandomnessBackoff:     getEnvAsDuration("RANDOMNESS_BACKOFF", DefaultRandomnessBackoff),
		RandomnessTimeout:     getEnvAsDuration("RANDOMNESS_TIMEOUT", DefaultRandomnessTimeout),
		MaxNumbersPerDraw:     getEnvAsInt("MAX_NUMBERS_PER_DRAW", DefaultMaxNumbersPerDraw),

		VerificationProvider:      strings.ToLower(getEnv("VERIFICATION_PROVIDER", ProviderSimulator)),
		BlockchainServiceURL:      getEnv("BLOCKCHAIN_SERVICE_URL", DefaultBlockchainServiceURL),
		VerificationTimeout:       getEnvAsDuration("VERIFICATION_TIMEOUT", DefaultVerificationTimeout),
		VerificationMaxRetries:    getEnvAsInt("VERIFICATION_MAX_RETRIES", DefaultVerificationMaxRetries),
		VerificationRetryDelay:    getEnvAsDuration("VERIFICATION_RETRY_DELAY", DefaultVerificationRetryDelay),
		VerificationSweepInterval: getEnvAsDuration("VERIFICATION_SWEEP_INTERVAL", DefaultVerificationSweepInterval),
		VerificationCacheSize:     getEnvAsInt("VERIFICATION_CACHE_SIZE", DefaultVerificationCacheSize),
		VerificationCacheTTL:      getEnvAsDuration("VERIFICATION_CACHE_TTL", DefaultVerificationCacheTTL),
		VerificationAutoVerify:    getEnvAsBool("VERIFICATION_AUTO_VERIFY", false),

		EventMaxRetries: getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay: getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
		DeadLetterPath:  getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),

		WorkerCount:     getEnvAsInt("WORKER_COUNT", DefaultWorkerCount),
		WorkerQueueSize: getEnvAsInt("WORKER_QUEUE_SIZE", DefaultWorkerQueueSize),
	}

	portStr := getEnv("PORT", strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	// Validate API key is set
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY environment variable must be set for security")
	}

	switch c.StorageBackend {
	case StorageBackendPostgres, StorageBackendMemory:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q: must be %s or %s", c.StorageBackend, StorageBackendPostgres, StorageBackendMemory)
	}

	switch c.RandomnessProvider {
	case ProviderSimulator, ProviderQuantum:
	default:
		return fmt.Errorf("invalid RANDOMNESS_PROVIDER %q: must be %s or %s", c.RandomnessProvider, ProviderSimulator, ProviderQuantum)
	}

	switch c.VerificationProvider {
	case ProviderSimulator, ProviderBlockchain:
	default:
		return fmt.Errorf("invalid VERIFICATION_PROVIDER %q: must be %s or %s", c.VerificationProvider, ProviderSimulator, ProviderBlockchain)
	}

	if c.RandomnessMaxAttempts < 1 {
		return fmt.Errorf("RANDOMNESS_MAX_ATTEMPTS must be at least 1, got %d", c.RandomnessMaxAttempts)
	}
	if c.MaxNumbersPerDraw < 1 {
		return fmt.Errorf("MAX_NUMBERS_PER_DRAW must be at least 1, got %d", c.MaxNumbersPerDraw)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1, got %d", c.WorkerCount)
	}
	if c.RandomnessTimeout <= 0 || c.VerificationTimeout <= 0 {
		return fmt.Errorf("RANDOMNESS_TIMEOUT and VERIFICATION_TIMEOUT must be positive")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default when unset or invalid
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat parses a float variable, falling back to the default when unset or invalid
func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a time.Duration variable ("30s", "5m")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated value, dropping empty items
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvAsBool parses a boolean variable
func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

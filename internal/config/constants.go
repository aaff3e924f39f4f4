package config

import "time"

// Storage backends
const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

// Collaborator providers
const (
	ProviderSimulator  = "simulator"
	ProviderQuantum    = "quantum"
	ProviderBlockchain = "blockchain"
)

// Defaults
const (
	DefaultPort        = 8080
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultServiceName = "qupot"
	DefaultVersion     = "dev"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultQuantumServiceURL    = "http://localhost:3001"
	DefaultBlockchainServiceURL = "http://localhost:3002"

	DefaultRandomnessMaxAttempts = 3
	DefaultRandomnessBackoff     = 200 * time.Millisecond
	DefaultRandomnessTimeout     = 5 * time.Second
	DefaultQuantumRateLimit      = 10.0
	DefaultQuantumRateBurst      = 5

	DefaultMaxNumbersPerDraw = 100

	DefaultVerificationTimeout       = 10 * time.Second
	DefaultVerificationMaxRetries    = 5
	DefaultVerificationRetryDelay    = 2 * time.Second
	DefaultVerificationSweepInterval = time.Minute
	DefaultVerificationCacheSize     = 1024
	DefaultVerificationCacheTTL      = 10 * time.Minute

	DefaultEventMaxRetries = 5
	DefaultEventRetryDelay = 2 * time.Second
	DefaultDeadLetterPath  = "deadletter.jsonl"

	DefaultWorkerCount     = 4
	DefaultWorkerQueueSize = 100
)

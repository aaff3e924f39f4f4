package randomness

import "time"

// Source names recorded in provenance
const (
	SourceNameQuantum   = "quantum"
	SourceNameSimulator = "simulator"
)

// Quantum service wire constants
const (
	QuantumRandomPath  = "/api/v1/random"
	QuantumHealthPath  = "/health"
	DefaultHTTPTimeout = 10 * time.Second
	maxErrorBodyBytes  = 512
	maxResponseBytes   = 1 << 20
)

// Log messages
const (
	LogMsgQuantumRequestFailed = "Quantum service request failed"
	LogMsgQuantumBadPayload    = "Quantum service response failed schema validation"
	LogMsgRateLimitWaitFailed  = "Randomness rate limiter wait aborted"
)

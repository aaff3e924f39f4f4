package worker

import "time"

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Verification Worker
// ============================================================================

const (
	LogMsgVerificationQueued       = "Verification submission queued"
	LogMsgVerificationQueueFull    = "Verification queue full, leaving draw for the sweep"
	LogMsgVerificationRetrying     = "Verification failed, scheduling retry"
	LogMsgVerificationGaveUp       = "Verification retries exhausted, leaving draw for the sweep"
	LogMsgVerificationBadPayload   = "Ignoring draw.completed event with unreadable payload"
	LogMsgVerificationSweepStarted = "Verification sweep started"
	LogMsgVerificationSweepItemErr = "Verification sweep item failed"
)

// ============================================================================
// Defaults
// ============================================================================

const (
	DefaultVerificationMaxRetries = 5
	DefaultVerificationRetryDelay = 2 * time.Second
	DefaultSweepBatchSize         = 100

	// VerificationWorkerName is used in shutdown logs
	VerificationWorkerName = "verification worker"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount      = 2
	TestQueueSize        = 10
	TestExpectedJobCount = 2
)

package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for session log files
	LogFilePermission = 0644
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept next to the new one
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting QuPot draw service"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
)

// =============================================================================
// Storage and Collaborators
// =============================================================================

const (
	LogMsgStorageInitialized      = "Draw storage initialized"
	LogMsgRandomnessInitialized   = "Randomness source initialized"
	LogMsgVerificationInitialized = "Verification source initialized"

	ErrMsgFailedConnectDatabase = "failed to connect to database"
	ErrMsgFailedMigrateDatabase = "failed to migrate database"
	ErrMsgUnknownStorage        = "unknown storage backend"
	ErrMsgUnknownProvider       = "unknown provider"

	// Readiness checker names
	CheckerDatabase   = "database"
	CheckerRandomness = "randomness"
)

// =============================================================================
// Event System Configuration
// =============================================================================

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgVerificationWorkerReady    = "Verification worker subscribed"
	LogMsgVerificationSweepScheduled = "Verification sweep scheduled"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// VerificationSweepJobName identifies the sweep in scheduler logs
const VerificationSweepJobName = "verification-sweep"

// =============================================================================
// Shutdown
// =============================================================================

// DefaultShutdownTimeout bounds the whole graceful shutdown sequence
const DefaultShutdownTimeout = 15 * time.Second

const (
	LogMsgShutdownSignal             = "Shutdown signal received"
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgServerFailed               = "Server failed"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgVerificationWorkerFailed   = "Verification worker shutdown failed"
)

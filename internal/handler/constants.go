package handler

import "time"

// Log messages
const (
	LogMsgEncodeFailed         = "Failed to encode JSON response"
	LogMsgWriteFailed          = "Failed to write response buffer"
	LogMsgInvalidDrawID        = "Invalid draw ID in path"
	LogMsgReadinessFailed      = "Readiness check failed"
	LogMsgDrawCreated          = "Draw created"
	LogMsgDrawSettled          = "Draw settled over HTTP"
	LogMsgVerificationCallback = "Verification callback received"
)

// Query defaults for list endpoints
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ReadinessTimeout bounds the dependency checks behind /readyz
const ReadinessTimeout = 2 * time.Second

package verification

import "time"

// Blockchain service wire constants
const (
	VerifyDrawPath     = "/blockchain/verify-draw"
	TransactionPath    = "/blockchain/transactions/"
	DefaultHTTPTimeout = 10 * time.Second
	maxErrorBodyBytes  = 512
	maxResponseBytes   = 1 << 20
)

// Transaction states reported by the blockchain service
const (
	TxStatusConfirmed = "confirmed"
	TxStatusPending   = "pending"
	TxStatusFailed    = "failed"
)

// Outcome cache defaults
const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = 10 * time.Minute
)

// Log messages
const (
	LogMsgSubmitFailed = "Verification submission failed"
	LogMsgStatusFailed = "Verification status lookup failed"
	LogMsgRejected     = "Verification service rejected draw result"
	LogMsgBadPayload   = "Verification service returned malformed payload"
)

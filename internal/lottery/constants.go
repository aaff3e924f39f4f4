package lottery

import "time"

// ============================================================================
// Defaults
// ============================================================================

const (
	DefaultMaxNumbersPerDraw     = 100
	DefaultRandomnessMaxAttempts = 3
	DefaultRandomnessBackoff     = 200 * time.Millisecond
	DefaultRandomnessTimeout     = 5 * time.Second
	DefaultVerificationTimeout   = 10 * time.Second

	// MinDrawNameLength is the shortest accepted draw name
	MinDrawNameLength = 3

	// casAttempts bounds how often a lost compare-and-swap is recomputed
	casAttempts = 2
)

// ============================================================================
// Error Context
// ============================================================================

const (
	ErrContextFailedToCreateDraw         = "failed to create draw"
	ErrContextFailedToGetDraw            = "failed to get draw"
	ErrContextFailedToListDraws          = "failed to list draws"
	ErrContextFailedToUpdateDraw         = "failed to update draw"
	ErrContextFailedToDeleteDraw         = "failed to delete draw"
	ErrContextFailedToGetResult          = "failed to get draw result"
	ErrContextFailedToCompleteDraw       = "failed to persist settlement"
	ErrContextFailedToUpdateVerification = "failed to update verification"
	ErrContextFailedToListResults        = "failed to list draw results"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgCreateDrawCalled   = "CreateDraw called"
	LogMsgUpdateDrawCalled   = "UpdateDraw called"
	LogMsgRemoveDrawCalled   = "RemoveDraw called"
	LogMsgTransitionCalled   = "Draw transition requested"
	LogMsgCompleteDrawCalled = "CompleteDraw called"
	LogMsgDrawTransitioned   = "Draw transitioned"
	LogMsgDrawSettled        = "Draw settled"
	LogMsgAlreadySettled     = "Draw already settled, returning stored result"
	LogMsgSettlementRaceLost = "Settlement lost race, returning winner's result"
	LogMsgCASMissRetrying    = "Compare-and-swap missed, reloading"
	LogMsgRandomnessRetry    = "Randomness source failed, retrying"
	LogMsgRandomnessFailed   = "Randomness source exhausted"
	LogMsgEventPublishFailed = "Failed to publish event"

	LogMsgVerificationSubmitted   = "Verification submitted"
	LogMsgVerificationRecorded    = "Verification outcome recorded"
	LogMsgVerificationIgnored     = "Verification outcome ignored, status cannot advance"
	LogMsgVerificationSubmitError = "Verification submission failed"
	LogMsgVerificationStatusError = "Verification status lookup failed"
)

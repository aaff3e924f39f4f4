package domain

import "time"

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "draw.completed")
const (
	// EventTypeDrawStarted is published when a draw moves to IN_PROGRESS
	EventTypeDrawStarted = "draw.started"

	// EventTypeDrawCompleted is published once per draw, after its result is persisted
	EventTypeDrawCompleted = "draw.completed"

	// EventTypeDrawCancelled is published when a draw is cancelled
	EventTypeDrawCancelled = "draw.cancelled"

	// EventTypeDrawVerified is published when a result reaches a terminal verification status
	EventTypeDrawVerified = "draw.verified"
)

// DrawCompletedPayloadV1 is the typed payload for draw completion events
type DrawCompletedPayloadV1 struct {
	DrawID         string    `json:"draw_id"`
	WinningNumbers []int     `json:"winning_numbers"`
	Provenance     string    `json:"provenance"`
	SettledAt      time.Time `json:"settled_at"`
}

// DrawTransitionPayloadV1 is the typed payload for start / cancel events
type DrawTransitionPayloadV1 struct {
	DrawID string     `json:"draw_id"`
	From   DrawStatus `json:"from"`
	To     DrawStatus `json:"to"`
	Caller string     `json:"caller,omitempty"`
}

// DrawVerifiedPayloadV1 is the typed payload for verification outcome events
type DrawVerifiedPayloadV1 struct {
	DrawID         string             `json:"draw_id"`
	Status         VerificationStatus `json:"status"`
	SubmissionID   string             `json:"submission_id"`
	AttestationRef string             `json:"attestation_ref,omitempty"`
}

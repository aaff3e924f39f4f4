package domain

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// DrawStatus is the lifecycle state of a draw
type DrawStatus string

const (
	DrawStatusPending    DrawStatus = "PENDING"
	DrawStatusInProgress DrawStatus = "IN_PROGRESS"
	DrawStatusCompleted  DrawStatus = "COMPLETED"
	DrawStatusCancelled  DrawStatus = "CANCELLED"
)

// Valid reports whether s is one of the known statuses
func (s DrawStatus) Valid() bool {
	switch s {
	case DrawStatusPending, DrawStatusInProgress, DrawStatusCompleted, DrawStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from s
func (s DrawStatus) Terminal() bool {
	return s == DrawStatusCompleted || s == DrawStatusCancelled
}

// VerificationStatus tracks the external attestation of a draw result.
// It only moves forward: UNVERIFIED -> PENDING -> VERIFIED | FAILED.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "UNVERIFIED"
	VerificationPending    VerificationStatus = "PENDING"
	VerificationVerified   VerificationStatus = "VERIFIED"
	VerificationFailed     VerificationStatus = "FAILED"
)

func (v VerificationStatus) rank() int {
	switch v {
	case VerificationUnverified:
		return 0
	case VerificationPending:
		return 1
	case VerificationVerified, VerificationFailed:
		return 2
	}
	return -1
}

// Terminal reports whether v is VERIFIED or FAILED
func (v VerificationStatus) Terminal() bool {
	return v.rank() == 2
}

// CanAdvanceTo reports whether moving from v to next is a forward step.
// Staying put or moving between the two terminal outcomes is not.
func (v VerificationStatus) CanAdvanceTo(next VerificationStatus) bool {
	if v.rank() < 0 || next.rank() < 0 {
		return false
	}
	return next.rank() > v.rank()
}

// Draw is a scheduled lottery draw
type Draw struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Status         DrawStatus `json:"status"`
	WinningNumbers []int      `json:"winning_numbers,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Clone returns a deep copy of the draw
func (d *Draw) Clone() *Draw {
	if d == nil {
		return nil
	}
	c := *d
	c.WinningNumbers = slices.Clone(d.WinningNumbers)
	return &c
}

// DrawUpdate is a partial metadata update. Nil fields are left untouched.
type DrawUpdate struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Apply copies the set fields onto d
func (u DrawUpdate) Apply(d *Draw) {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Description != nil {
		d.Description = *u.Description
	}
	if u.StartDate != nil {
		d.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		d.EndDate = *u.EndDate
	}
}

// Empty reports whether no field is set
func (u DrawUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.StartDate == nil && u.EndDate == nil
}

// NumberRange is the inclusive range winning numbers are drawn from
type NumberRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Bounds on range endpoints; winning numbers are stored as 32-bit integers
const (
	MinDrawNumber = math.MinInt32
	MaxDrawNumber = math.MaxInt32
)

// Validate rejects empty, inverted and out-of-bounds ranges with ErrInvalidRange
func (r NumberRange) Validate() error {
	if r.Min >= r.Max {
		return fmt.Errorf("%w: min %d must be less than max %d", ErrInvalidRange, r.Min, r.Max)
	}
	if r.Min < MinDrawNumber || r.Max > MaxDrawNumber {
		return fmt.Errorf("%w: range %d-%d exceeds %d-%d", ErrInvalidRange, r.Min, r.Max, MinDrawNumber, MaxDrawNumber)
	}
	return nil
}

// Size returns the number of distinct values in the range, saturating at
// math.MaxInt. It is 0 for an inverted range.
func (r NumberRange) Size() int {
	if r.Max < r.Min {
		return 0
	}
	span := uint64(r.Max) - uint64(r.Min) // exact in two's complement
	if span >= math.MaxInt {
		return math.MaxInt
	}
	return int(span) + 1
}

// Contains reports whether n lies inside the range
func (r NumberRange) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// DrawResult is the settlement record of a completed draw. Everything except
// the verification fields is immutable once written.
type DrawResult struct {
	DrawID                uuid.UUID          `json:"draw_id"`
	WinningNumbers        []int              `json:"winning_numbers"`
	Timestamp             time.Time          `json:"timestamp"`
	RandomnessProvenance  string             `json:"randomness_provenance"`
	VerificationStatus    VerificationStatus `json:"verification_status"`
	SubmissionID          string             `json:"submission_id,omitempty"`
	AttestationRef        string             `json:"attestation_ref,omitempty"`
	VerificationUpdatedAt *time.Time         `json:"verification_updated_at,omitempty"`
}

// Clone returns a deep copy of the result
func (r *DrawResult) Clone() *DrawResult {
	if r == nil {
		return nil
	}
	c := *r
	c.WinningNumbers = slices.Clone(r.WinningNumbers)
	if r.VerificationUpdatedAt != nil {
		t := *r.VerificationUpdatedAt
		c.VerificationUpdatedAt = &t
	}
	return &c
}

// VerificationOutcome is what the verification collaborator reports back
// about a submitted result.
type VerificationOutcome struct {
	SubmissionID   string `json:"submission_id"`
	Verified       bool   `json:"verified"`
	AttestationRef string `json:"attestation_ref,omitempty"`
}

// Status maps the outcome to its terminal verification status
func (o VerificationOutcome) Status() VerificationStatus {
	if o.Verified {
		return VerificationVerified
	}
	return VerificationFailed
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/domain"
)

// DrawFilter narrows ListDraws. Zero values mean no constraint.
type DrawFilter struct {
	Status *domain.DrawStatus
	Limit  int
	Offset int
}

// VerificationUpdate is the set of verification fields written together
type VerificationUpdate struct {
	Status         domain.VerificationStatus
	SubmissionID   string // empty keeps the stored value
	AttestationRef string // empty keeps the stored value
	At             time.Time
}

// Draw defines the data access required by the settlement coordinator.
//
// Every mutation is a compare-and-swap: the write happens only when the
// stored status equals the expected one and the number of affected rows
// (0 or 1) is returned. A miss is not an error.
type Draw interface {
	CreateDraw(ctx context.Context, draw *domain.Draw) error
	// GetDraw returns nil, nil when no draw has the id
	GetDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error)
	ListDraws(ctx context.Context, filter DrawFilter) ([]*domain.Draw, error)

	// UpdateDrawDetailsIfMatches writes name, description, dates and updated_at
	UpdateDrawDetailsIfMatches(ctx context.Context, draw *domain.Draw, expected domain.DrawStatus) (int64, error)
	DeleteDrawIfMatches(ctx context.Context, id uuid.UUID, expected domain.DrawStatus) (int64, error)
	UpdateDrawStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.DrawStatus, at time.Time) (int64, error)

	// CompleteDrawIfMatches moves the draw to COMPLETED with the result's
	// winning numbers and inserts the result, atomically. A draw that already
	// has a result is a miss.
	CompleteDrawIfMatches(ctx context.Context, result *domain.DrawResult, expected domain.DrawStatus) (int64, error)

	// GetDrawResult returns nil, nil when the draw has no result
	GetDrawResult(ctx context.Context, drawID uuid.UUID) (*domain.DrawResult, error)
	UpdateVerificationIfMatches(ctx context.Context, drawID uuid.UUID, expected domain.VerificationStatus, update VerificationUpdate) (int64, error)
	ListResultsByVerification(ctx context.Context, status domain.VerificationStatus, limit int) ([]*domain.DrawResult, error)
}

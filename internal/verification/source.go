// Package verification submits settled draw results for external attestation
// and reads back the outcome.
package verification

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/domain"
)

// ErrUnknownSubmission is returned by Status for an id the collaborator has never seen.
// It is always wrapped together with domain.ErrVerificationUnavailable.
var ErrUnknownSubmission = errors.New("unknown submission")

// Source is the external verification collaborator.
//
// Status returns a nil outcome while the submission is still being processed.
type Source interface {
	Submit(ctx context.Context, drawID uuid.UUID, result *domain.DrawResult) (string, error)
	Status(ctx context.Context, submissionID string) (*domain.VerificationOutcome, error)
}

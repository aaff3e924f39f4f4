package lottery

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/event"
	"github.com/osse101/QuPot_Go/internal/logger"
	"github.com/osse101/QuPot_Go/internal/metrics"
	"github.com/osse101/QuPot_Go/internal/repository"
)

// RecordVerification applies a verification outcome to a draw result.
// Only the verification status moves, and only forward: a duplicate or late
// outcome returns the stored result unchanged.
func (s *service) RecordVerification(ctx context.Context, drawID uuid.UUID, outcome domain.VerificationOutcome) (*domain.DrawResult, error) {
	log := logger.FromContext(ctx)

	if outcome.SubmissionID == "" {
		return nil, fmt.Errorf("%w: submission id is required", domain.ErrValidation)
	}
	next := outcome.Status()

	for attempt := 1; attempt <= casAttempts; attempt++ {
		result, err := s.GetDrawResult(ctx, drawID)
		if err != nil {
			return nil, err
		}
		if result.SubmissionID != "" && result.SubmissionID != outcome.SubmissionID {
			return nil, fmt.Errorf("%w: submission %s does not match recorded submission for draw %s",
				domain.ErrValidation, outcome.SubmissionID, drawID)
		}
		if !result.VerificationStatus.CanAdvanceTo(next) {
			log.Info(LogMsgVerificationIgnored, "draw_id", drawID, "current", result.VerificationStatus, "outcome", next)
			return result, nil
		}

		at := s.now()
		rows, err := s.repo.UpdateVerificationIfMatches(ctx, drawID, result.VerificationStatus, repository.VerificationUpdate{
			Status:         next,
			SubmissionID:   outcome.SubmissionID,
			AttestationRef: outcome.AttestationRef,
			At:             at,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateVerification, err)
		}
		if rows == 1 {
			result.VerificationStatus = next
			result.SubmissionID = outcome.SubmissionID
			if outcome.AttestationRef != "" {
				result.AttestationRef = outcome.AttestationRef
			}
			result.VerificationUpdatedAt = &at
			log.Info(LogMsgVerificationRecorded, "draw_id", drawID, "status", next, "submission_id", outcome.SubmissionID)
			s.publish(ctx, event.NewDrawVerifiedEvent(result))
			return result, nil
		}
		log.Warn(LogMsgCASMissRetrying, "draw_id", drawID, "op", "verify", "attempt", attempt)
	}
	return nil, fmt.Errorf("%w: verification of draw %s changed concurrently", domain.ErrConflict, drawID)
}

// SubmitVerification hands an UNVERIFIED result to the verification source and
// marks it PENDING. Results that were already submitted are returned as is.
func (s *service) SubmitVerification(ctx context.Context, drawID uuid.UUID) (*domain.DrawResult, error) {
	log := logger.FromContext(ctx)

	result, err := s.GetDrawResult(ctx, drawID)
	if err != nil {
		return nil, err
	}
	if result.VerificationStatus != domain.VerificationUnverified {
		return result, nil
	}
	if s.verifier == nil {
		return nil, fmt.Errorf("%w: no verification source configured", domain.ErrVerificationUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.VerificationTimeout)
	submissionID, err := s.verifier.Submit(callCtx, drawID, result)
	cancel()
	if err != nil {
		metrics.VerificationSubmissions.WithLabelValues(metrics.ResultFailure).Inc()
		log.Warn(LogMsgVerificationSubmitError, "draw_id", drawID, "error", err)
		return nil, wrapVerificationErr(err)
	}
	metrics.VerificationSubmissions.WithLabelValues(metrics.ResultSuccess).Inc()

	at := s.now()
	rows, err := s.repo.UpdateVerificationIfMatches(ctx, drawID, domain.VerificationUnverified, repository.VerificationUpdate{
		Status:       domain.VerificationPending,
		SubmissionID: submissionID,
		At:           at,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateVerification, err)
	}
	if rows == 0 {
		// a callback or another submitter got there first
		return s.GetDrawResult(ctx, drawID)
	}

	result.VerificationStatus = domain.VerificationPending
	result.SubmissionID = submissionID
	result.VerificationUpdatedAt = &at
	log.Info(LogMsgVerificationSubmitted, "draw_id", drawID, "submission_id", submissionID)
	return result, nil
}

// ReconcileVerification polls the verification source for a PENDING result and
// records a terminal outcome when one is available.
func (s *service) ReconcileVerification(ctx context.Context, drawID uuid.UUID) (*domain.DrawResult, error) {
	result, err := s.GetDrawResult(ctx, drawID)
	if err != nil {
		return nil, err
	}
	if result.VerificationStatus != domain.VerificationPending {
		return result, nil
	}
	if s.verifier == nil {
		return nil, fmt.Errorf("%w: no verification source configured", domain.ErrVerificationUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.VerificationTimeout)
	outcome, err := s.verifier.Status(callCtx, result.SubmissionID)
	cancel()
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgVerificationStatusError, "draw_id", drawID, "submission_id", result.SubmissionID, "error", err)
		return nil, wrapVerificationErr(err)
	}
	if outcome == nil {
		return result, nil
	}
	if outcome.SubmissionID == "" {
		outcome.SubmissionID = result.SubmissionID
	}
	return s.RecordVerification(ctx, drawID, *outcome)
}

func wrapVerificationErr(err error) error {
	if domain.ErrorKind(err) == domain.KindVerificationUnavailable {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrVerificationUnavailable, err)
}

package lottery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/event"
	"github.com/osse101/QuPot_Go/internal/logger"
	"github.com/osse101/QuPot_Go/internal/metrics"
	"github.com/osse101/QuPot_Go/internal/randomness"
)

// CompleteDraw settles an IN_PROGRESS draw exactly once.
//
// A draw that already has a result returns it without touching the
// randomness source, whatever count and range the repeat call carries. Numbers are only bound to the draw by the atomic
// compare-and-swap; a caller that loses the race discards its numbers and
// returns the winner's result.
func (s *service) CompleteDraw(ctx context.Context, id uuid.UUID, count int, numberRange domain.NumberRange) (*domain.DrawResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCompleteDrawCalled, "draw_id", id, "count", count, "min", numberRange.Min, "max", numberRange.Max)

	if _, err := s.authorize(ctx, domain.DrawEventComplete, id); err != nil {
		return nil, err
	}
	if existing, err := s.repo.GetDrawResult(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetResult, err)
	} else if existing != nil {
		log.Info(LogMsgAlreadySettled, "draw_id", id)
		metrics.Settlements.WithLabelValues(metrics.OutcomeAlreadySettled).Inc()
		return existing, nil
	}

	if err := s.validateCompleteInput(count, numberRange); err != nil {
		metrics.Settlements.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	draw, err := s.loadDraw(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := domain.NextStatus(draw.Status, domain.DrawEventComplete); err != nil {
		metrics.Settlements.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("draw %s: %w", id, err)
	}

	batch, err := s.acquireNumbers(ctx, count, numberRange)
	if err != nil {
		if errors.Is(err, domain.ErrRandomnessUnavailable) {
			metrics.Settlements.WithLabelValues(metrics.OutcomeRandomnessUnavailable).Inc()
		} else {
			metrics.Settlements.WithLabelValues(metrics.OutcomeRejected).Inc()
		}
		return nil, err
	}

	for attempt := 1; attempt <= casAttempts; attempt++ {
		if _, err := domain.CompleteTransition(draw.Status, batch.Numbers); err != nil {
			metrics.Settlements.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, fmt.Errorf("draw %s: %w", id, err)
		}

		result := &domain.DrawResult{
			DrawID:               id,
			WinningNumbers:       append([]int(nil), batch.Numbers...),
			Timestamp:            s.now(),
			RandomnessProvenance: batch.Provenance.String(),
			VerificationStatus:   domain.VerificationUnverified,
		}

		rows, err := s.repo.CompleteDrawIfMatches(ctx, result, domain.DrawStatusInProgress)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToCompleteDraw, err)
		}
		if rows == 1 {
			log.Info(LogMsgDrawSettled, "draw_id", id, "numbers", result.WinningNumbers, "provenance", result.RandomnessProvenance)
			metrics.Settlements.WithLabelValues(metrics.OutcomeSettled).Inc()
			s.publish(ctx, event.NewDrawCompletedEvent(result))
			return result, nil
		}

		// Lost the swap: whoever won owns the settlement
		winner, err := s.repo.GetDrawResult(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetResult, err)
		}
		if winner != nil {
			log.Info(LogMsgSettlementRaceLost, "draw_id", id)
			metrics.Settlements.WithLabelValues(metrics.OutcomeLostRace).Inc()
			return winner, nil
		}

		log.Warn(LogMsgCASMissRetrying, "draw_id", id, "op", domain.DrawEventComplete, "attempt", attempt)
		if draw, err = s.loadDraw(ctx, id); err != nil {
			return nil, err
		}
	}

	metrics.Settlements.WithLabelValues(metrics.OutcomeRejected).Inc()
	return nil, fmt.Errorf("%w: draw %s changed concurrently", domain.ErrConflict, id)
}

func (s *service) validateCompleteInput(count int, r domain.NumberRange) error {
	if count < 1 {
		return fmt.Errorf("%w: count must be at least 1, got %d", domain.ErrValidation, count)
	}
	if count > s.cfg.MaxNumbersPerDraw {
		return fmt.Errorf("%w: count %d exceeds the maximum of %d", domain.ErrValidation, count, s.cfg.MaxNumbersPerDraw)
	}
	return r.Validate()
}

// acquireNumbers calls the randomness source with bounded exponential backoff.
// Invalid ranges are permanent; everything else is retried until the attempts
// run out and then reported as ErrRandomnessUnavailable.
func (s *service) acquireNumbers(ctx context.Context, count int, r domain.NumberRange) (*randomness.Batch, error) {
	log := logger.FromContext(ctx)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.cfg.RandomnessBackoff
	policy.MaxInterval = s.cfg.RandomnessBackoff * 8
	policy.MaxElapsedTime = 0

	attempts := 0
	op := func() (*randomness.Batch, error) {
		attempts++
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.RandomnessTimeout)
		defer cancel()

		start := time.Now()
		batch, err := s.rng.Draw(callCtx, count, r.Min, r.Max)
		metrics.RandomnessDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.RandomnessAttempts.WithLabelValues(metrics.ResultFailure).Inc()
			if !randomness.IsRetryable(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		metrics.RandomnessAttempts.WithLabelValues(metrics.ResultSuccess).Inc()
		return batch, nil
	}
	notify := func(err error, wait time.Duration) {
		log.Warn(LogMsgRandomnessRetry, "attempt", attempts, "wait", wait, "error", err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.cfg.RandomnessMaxAttempts-1)), ctx)
	batch, err := backoff.RetryNotifyWithData(op, b, notify)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		log.Error(LogMsgRandomnessFailed, "attempts", attempts, "error", err)
		if errors.Is(err, domain.ErrRandomnessUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRandomnessUnavailable, err)
	}
	return batch, nil
}

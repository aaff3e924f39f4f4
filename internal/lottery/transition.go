package lottery

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/event"
	"github.com/osse101/QuPot_Go/internal/logger"
)

// StartDraw moves a PENDING draw to IN_PROGRESS
func (s *service) StartDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error) {
	return s.transition(ctx, id, domain.DrawEventStart, event.DrawStarted)
}

// CancelDraw moves a PENDING or IN_PROGRESS draw to CANCELLED
func (s *service) CancelDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error) {
	return s.transition(ctx, id, domain.DrawEventCancel, event.DrawCancelled)
}

// transition applies a status-only event under compare-and-swap. A lost swap
// reloads the draw and recomputes the transition once.
func (s *service) transition(ctx context.Context, id uuid.UUID, evt domain.DrawEvent, eventType event.Type) (*domain.Draw, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgTransitionCalled, "draw_id", id, "event", evt)

	caller, err := s.authorize(ctx, evt, id)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= casAttempts; attempt++ {
		draw, err := s.loadDraw(ctx, id)
		if err != nil {
			return nil, err
		}

		from := draw.Status
		next, err := domain.NextStatus(from, evt)
		if err != nil {
			return nil, fmt.Errorf("draw %s: %w", id, err)
		}

		at := s.now()
		rows, err := s.repo.UpdateDrawStatusIfMatches(ctx, id, from, next, at)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateDraw, err)
		}
		if rows == 1 {
			draw.Status = next
			draw.UpdatedAt = at
			log.Info(LogMsgDrawTransitioned, "draw_id", id, "from", from, "to", next, "caller", caller)
			s.publish(ctx, event.NewDrawTransitionEvent(eventType, draw, from, caller))
			return draw, nil
		}
		log.Warn(LogMsgCASMissRetrying, "draw_id", id, "op", evt, "attempt", attempt)
	}
	return nil, fmt.Errorf("%w: draw %s changed concurrently", domain.ErrConflict, id)
}

package lottery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/logger"
	"github.com/osse101/QuPot_Go/internal/repository"
)

// CreateDrawInput carries the caller-supplied fields of a new draw.
// Status is not settable; every draw starts PENDING.
type CreateDrawInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

func validateDetails(name, description string, start, end time.Time) error {
	if len(strings.TrimSpace(name)) < MinDrawNameLength {
		return fmt.Errorf("%w: name must be at least %d characters", domain.ErrValidation, MinDrawNameLength)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end date are required", domain.ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}
	return nil
}

func (s *service) CreateDraw(ctx context.Context, in CreateDrawInput) (*domain.Draw, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCreateDrawCalled, "name", in.Name)

	name := strings.TrimSpace(in.Name)
	if err := validateDetails(name, in.Description, in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	now := s.now()
	draw := &domain.Draw{
		ID:          uuid.New(),
		Name:        name,
		Description: in.Description,
		StartDate:   in.StartDate.UTC(),
		EndDate:     in.EndDate.UTC(),
		Status:      domain.DrawStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateDraw(ctx, draw); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreateDraw, err)
	}
	return draw, nil
}

func (s *service) ListDraws(ctx context.Context, filter repository.DrawFilter) ([]*domain.Draw, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *filter.Status)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", domain.ErrValidation)
	}
	draws, err := s.repo.ListDraws(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToListDraws, err)
	}
	return draws, nil
}

func (s *service) GetDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error) {
	return s.loadDraw(ctx, id)
}

func (s *service) loadDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error) {
	draw, err := s.repo.GetDraw(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetDraw, err)
	}
	if draw == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDrawNotFound, id)
	}
	return draw, nil
}

// UpdateDraw patches metadata of a PENDING draw
func (s *service) UpdateDraw(ctx context.Context, id uuid.UUID, update domain.DrawUpdate) (*domain.Draw, error) {
	logger.FromContext(ctx).Info(LogMsgUpdateDrawCalled, "draw_id", id)

	if update.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}

	for attempt := 1; attempt <= casAttempts; attempt++ {
		draw, err := s.loadDraw(ctx, id)
		if err != nil {
			return nil, err
		}
		if draw.Status != domain.DrawStatusPending {
			return nil, fmt.Errorf("%w: draw %s is %s, only PENDING draws can be edited", domain.ErrConflict, id, draw.Status)
		}

		update.Apply(draw)
		draw.Name = strings.TrimSpace(draw.Name)
		draw.StartDate = draw.StartDate.UTC()
		draw.EndDate = draw.EndDate.UTC()
		if err := validateDetails(draw.Name, draw.Description, draw.StartDate, draw.EndDate); err != nil {
			return nil, err
		}
		draw.UpdatedAt = s.now()

		rows, err := s.repo.UpdateDrawDetailsIfMatches(ctx, draw, domain.DrawStatusPending)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateDraw, err)
		}
		if rows == 1 {
			return draw, nil
		}
		logger.FromContext(ctx).Warn(LogMsgCASMissRetrying, "draw_id", id, "op", "update", "attempt", attempt)
	}
	return nil, fmt.Errorf("%w: draw %s changed concurrently", domain.ErrConflict, id)
}

// RemoveDraw deletes a draw that has not been settled
func (s *service) RemoveDraw(ctx context.Context, id uuid.UUID) error {
	logger.FromContext(ctx).Info(LogMsgRemoveDrawCalled, "draw_id", id)

	for attempt := 1; attempt <= casAttempts; attempt++ {
		draw, err := s.loadDraw(ctx, id)
		if err != nil {
			return err
		}
		if draw.Status == domain.DrawStatusCompleted {
			return fmt.Errorf("%w: draw %s is COMPLETED and cannot be removed", domain.ErrConflict, id)
		}

		rows, err := s.repo.DeleteDrawIfMatches(ctx, id, draw.Status)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToDeleteDraw, err)
		}
		if rows == 1 {
			return nil
		}
		logger.FromContext(ctx).Warn(LogMsgCASMissRetrying, "draw_id", id, "op", "remove", "attempt", attempt)
	}
	return fmt.Errorf("%w: draw %s changed concurrently", domain.ErrConflict, id)
}

func (s *service) GetDrawResult(ctx context.Context, id uuid.UUID) (*domain.DrawResult, error) {
	result, err := s.repo.GetDrawResult(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetResult, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDrawResultNotFound, id)
	}
	return result, nil
}

func (s *service) ListResultsByVerification(ctx context.Context, status domain.VerificationStatus, limit int) ([]*domain.DrawResult, error) {
	results, err := s.repo.ListResultsByVerification(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToListResults, err)
	}
	return results, nil
}

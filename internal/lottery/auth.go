package lottery

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/domain"
)

// Authorizer decides whether the caller behind a token may drive a draw transition
type Authorizer interface {
	Authorize(ctx context.Context, caller string, evt domain.DrawEvent, drawID uuid.UUID) error
}

// RequireCaller accepts any non-empty caller token
type RequireCaller struct{}

func (RequireCaller) Authorize(_ context.Context, caller string, evt domain.DrawEvent, drawID uuid.UUID) error {
	if caller == "" {
		return fmt.Errorf("%w: no caller for %s on draw %s", domain.ErrUnauthorized, evt, drawID)
	}
	return nil
}

func (s *service) authorize(ctx context.Context, evt domain.DrawEvent, id uuid.UUID) (string, error) {
	caller := domain.CallerFromContext(ctx)
	if s.auth == nil {
		return caller, nil
	}
	if err := s.auth.Authorize(ctx, caller, evt, id); err != nil {
		return "", err
	}
	return caller, nil
}

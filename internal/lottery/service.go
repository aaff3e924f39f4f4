// Package lottery coordinates the draw lifecycle: metadata CRUD, the guarded
// status transitions, settlement against a randomness source and recording of
// the external verification outcome.
package lottery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/event"
	"github.com/osse101/QuPot_Go/internal/logger"
	"github.com/osse101/QuPot_Go/internal/randomness"
	"github.com/osse101/QuPot_Go/internal/repository"
	"github.com/osse101/QuPot_Go/internal/verification"
)

// Service defines the interface for draw operations
type Service interface {
	CreateDraw(ctx context.Context, in CreateDrawInput) (*domain.Draw, error)
	ListDraws(ctx context.Context, filter repository.DrawFilter) ([]*domain.Draw, error)
	GetDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error)
	UpdateDraw(ctx context.Context, id uuid.UUID, update domain.DrawUpdate) (*domain.Draw, error)
	RemoveDraw(ctx context.Context, id uuid.UUID) error

	StartDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error)
	CompleteDraw(ctx context.Context, id uuid.UUID, count int, numberRange domain.NumberRange) (*domain.DrawResult, error)
	CancelDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error)

	GetDrawResult(ctx context.Context, id uuid.UUID) (*domain.DrawResult, error)
	RecordVerification(ctx context.Context, drawID uuid.UUID, outcome domain.VerificationOutcome) (*domain.DrawResult, error)
	SubmitVerification(ctx context.Context, drawID uuid.UUID) (*domain.DrawResult, error)
	ReconcileVerification(ctx context.Context, drawID uuid.UUID) (*domain.DrawResult, error)
	ListResultsByVerification(ctx context.Context, status domain.VerificationStatus, limit int) ([]*domain.DrawResult, error)
}

// Config holds the settlement tunables
type Config struct {
	MaxNumbersPerDraw     int
	RandomnessMaxAttempts int
	RandomnessBackoff     time.Duration
	RandomnessTimeout     time.Duration
	VerificationTimeout   time.Duration
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		MaxNumbersPerDraw:     DefaultMaxNumbersPerDraw,
		RandomnessMaxAttempts: DefaultRandomnessMaxAttempts,
		RandomnessBackoff:     DefaultRandomnessBackoff,
		RandomnessTimeout:     DefaultRandomnessTimeout,
		VerificationTimeout:   DefaultVerificationTimeout,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxNumbersPerDraw <= 0 {
		c.MaxNumbersPerDraw = d.MaxNumbersPerDraw
	}
	if c.RandomnessMaxAttempts <= 0 {
		c.RandomnessMaxAttempts = d.RandomnessMaxAttempts
	}
	if c.RandomnessBackoff <= 0 {
		c.RandomnessBackoff = d.RandomnessBackoff
	}
	if c.RandomnessTimeout <= 0 {
		c.RandomnessTimeout = d.RandomnessTimeout
	}
	if c.VerificationTimeout <= 0 {
		c.VerificationTimeout = d.VerificationTimeout
	}
	return c
}

type service struct {
	repo     repository.Draw
	rng      randomness.Source
	verifier verification.Source
	eventBus event.Bus
	auth     Authorizer
	cfg      Config
	now      func() time.Time
}

// NewService creates a new lottery service. verifier and eventBus may be nil.
func NewService(repo repository.Draw, rng randomness.Source, verifier verification.Source, eventBus event.Bus, auth Authorizer, cfg Config) Service {
	return &service{
		repo:     repo,
		rng:      rng,
		verifier: verifier,
		eventBus: eventBus,
		auth:     auth,
		cfg:      cfg.withDefaults(),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// publish is fire-and-forget: a failing subscriber never fails the operation
func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	}
}

package lottery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/event"
	"github.com/osse101/QuPot_Go/internal/randomness"
	"github.com/osse101/QuPot_Go/internal/repository"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateDraw(ctx context.Context, draw *domain.Draw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockRepository) GetDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draw).Clone(), args.Error(1)
}

func (m *MockRepository) ListDraws(ctx context.Context, filter repository.DrawFilter) ([]*domain.Draw, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Draw), args.Error(1)
}

func (m *MockRepository) UpdateDrawDetailsIfMatches(ctx context.Context, draw *domain.Draw, expected domain.DrawStatus) (int64, error) {
	args := m.Called(ctx, draw, expected)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockRepository) DeleteDrawIfMatches(ctx context.Context, id uuid.UUID, expected domain.DrawStatus) (int64, error) {
	args := m.Called(ctx, id, expected)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockRepository) UpdateDrawStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.DrawStatus, at time.Time) (int64, error) {
	args := m.Called(ctx, id, expected, next, at)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockRepository) CompleteDrawIfMatches(ctx context.Context, result *domain.DrawResult, expected domain.DrawStatus) (int64, error) {
	args := m.Called(ctx, result, expected)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockRepository) GetDrawResult(ctx context.Context, drawID uuid.UUID) (*domain.DrawResult, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DrawResult).Clone(), args.Error(1)
}

func (m *MockRepository) UpdateVerificationIfMatches(ctx context.Context, drawID uuid.UUID, expected domain.VerificationStatus, update repository.VerificationUpdate) (int64, error) {
	args := m.Called(ctx, drawID, expected, update)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockRepository) ListResultsByVerification(ctx context.Context, status domain.VerificationStatus, limit int) ([]*domain.DrawResult, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DrawResult), args.Error(1)
}

// MockRandomness
type MockRandomness struct {
	mock.Mock
}

func (m *MockRandomness) Draw(ctx context.Context, count, min, max int) (*randomness.Batch, error) {
	args := m.Called(ctx, count, min, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*randomness.Batch), args.Error(1)
}

// MockBus
type MockBus struct {
	mock.Mock
}

func (m *MockBus) Publish(ctx context.Context, evt event.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}

// recordingBus captures published events
type recordingBus struct {
	*event.MemoryBus
	events chan event.Event
}

func newRecordingBus() *recordingBus {
	return &recordingBus{MemoryBus: event.NewMemoryBus(), events: make(chan event.Event, 64)}
}

func (b *recordingBus) Publish(ctx context.Context, evt event.Event) error {
	b.events <- evt
	return b.MemoryBus.Publish(ctx, evt)
}

func (b *recordingBus) drain() []event.Event {
	var out []event.Event
	for {
		select {
		case evt := <-b.events:
			out = append(out, evt)
		default:
			return out
		}
	}
}

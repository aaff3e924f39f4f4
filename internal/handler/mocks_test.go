package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/lottery"
	"github.com/osse101/QuPot_Go/internal/repository"
)

// MockService is a testify mock of lottery.Service
type MockService struct {
	mock.Mock
}

var _ lottery.Service = (*MockService)(nil)

func (m *MockService) draw(args mock.Arguments) (*domain.Draw, error) {
	if d := args.Get(0); d != nil {
		return d.(*domain.Draw), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) result(args mock.Arguments) (*domain.DrawResult, error) {
	if r := args.Get(0); r != nil {
		return r.(*domain.DrawResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) CreateDraw(ctx context.Context, in lottery.CreateDrawInput) (*domain.Draw, error) {
	return m.draw(m.Called(ctx, in))
}

func (m *MockService) ListDraws(ctx context.Context, filter repository.DrawFilter) ([]*domain.Draw, error) {
	args := m.Called(ctx, filter)
	if d := args.Get(0); d != nil {
		return d.([]*domain.Draw), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) GetDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error) {
	return m.draw(m.Called(ctx, id))
}

func (m *MockService) UpdateDraw(ctx context.Context, id uuid.UUID, update domain.DrawUpdate) (*domain.Draw, error) {
	return m.draw(m.Called(ctx, id, update))
}

func (m *MockService) RemoveDraw(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) StartDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error) {
	return m.draw(m.Called(ctx, id))
}

func (m *MockService) CompleteDraw(ctx context.Context, id uuid.UUID, count int, numberRange domain.NumberRange) (*domain.DrawResult, error) {
	return m.result(m.Called(ctx, id, count, numberRange))
}

func (m *MockService) CancelDraw(ctx context.Context, id uuid.UUID) (*domain.Draw, error) {
	return m.draw(m.Called(ctx, id))
}

func (m *MockService) GetDrawResult(ctx context.Context, id uuid.UUID) (*domain.DrawResult, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockService) RecordVerification(ctx context.Context, drawID uuid.UUID, outcome domain.VerificationOutcome) (*domain.DrawResult, error) {
	return m.result(m.Called(ctx, drawID, outcome))
}

func (m *MockService) SubmitVerification(ctx context.Context, drawID uuid.UUID) (*domain.DrawResult, error) {
	return m.result(m.Called(ctx, drawID))
}

func (m *MockService) ReconcileVerification(ctx context.Context, drawID uuid.UUID) (*domain.DrawResult, error) {
	return m.result(m.Called(ctx, drawID))
}

func (m *MockService) ListResultsByVerification(ctx context.Context, status domain.VerificationStatus, limit int) ([]*domain.DrawResult, error) {
	args := m.Called(ctx, status, limit)
	if r := args.Get(0); r != nil {
		return r.([]*domain.DrawResult), args.Error(1)
	}
	return nil, args.Error(1)
}

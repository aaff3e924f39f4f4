// Package memory is the in-process reference implementation of repository.Draw.
// It keeps the same compare-and-swap semantics as the postgres store so the
// coordinator behaves identically on either backend.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/repository"
)

// DrawStore keeps draws and results in maps guarded by one mutex
type DrawStore struct {
	mu      sync.RWMutex
	draws   map[uuid.UUID]*domain.Draw
	results map[uuid.UUID]*domain.DrawResult
}

var _ repository.Draw = (*DrawStore)(nil)

// NewDrawStore constructs an empty store
func NewDrawStore() *DrawStore {
	return &DrawStore{
		draws:   make(map[uuid.UUID]*domain.Draw),
		results: make(map[uuid.UUID]*domain.DrawResult),
	}
}

func (s *DrawStore) CreateDraw(_ context.Context, draw *domain.Draw) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.draws[draw.ID]; exists {
		return fmt.Errorf("%w: draw %s already exists", domain.ErrConflict, draw.ID)
	}
	s.draws[draw.ID] = draw.Clone()
	return nil
}

func (s *DrawStore) GetDraw(_ context.Context, id uuid.UUID) (*domain.Draw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.draws[id].Clone(), nil
}

func (s *DrawStore) ListDraws(_ context.Context, filter repository.DrawFilter) ([]*domain.Draw, error) {
	s.mu.RLock()
	result := make([]*domain.Draw, 0, len(s.draws))
	for _, d := range s.draws {
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		result = append(result, d.Clone())
	}
	s.mu.RUnlock()

	// newest first, id breaks ties so pages are stable
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*domain.Draw{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (s *DrawStore) UpdateDrawDetailsIfMatches(_ context.Context, draw *domain.Draw, expected domain.DrawStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.draws[draw.ID]
	if !ok || stored.Status != expected {
		return 0, nil
	}
	stored.Name = draw.Name
	stored.Description = draw.Description
	stored.StartDate = draw.StartDate
	stored.EndDate = draw.EndDate
	stored.UpdatedAt = draw.UpdatedAt
	return 1, nil
}

func (s *DrawStore) DeleteDrawIfMatches(_ context.Context, id uuid.UUID, expected domain.DrawStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.draws[id]
	if !ok || stored.Status != expected {
		return 0, nil
	}
	if _, hasResult := s.results[id]; hasResult {
		return 0, nil
	}
	delete(s.draws, id)
	return 1, nil
}

func (s *DrawStore) UpdateDrawStatusIfMatches(_ context.Context, id uuid.UUID, expected, next domain.DrawStatus, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.draws[id]
	if !ok || stored.Status != expected {
		return 0, nil
	}
	stored.Status = next
	stored.UpdatedAt = at
	return 1, nil
}

func (s *DrawStore) CompleteDrawIfMatches(_ context.Context, result *domain.DrawResult, expected domain.DrawStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.draws[result.DrawID]
	if !ok || stored.Status != expected {
		return 0, nil
	}
	if _, exists := s.results[result.DrawID]; exists {
		return 0, nil
	}

	stored.Status = domain.DrawStatusCompleted
	stored.WinningNumbers = slices.Clone(result.WinningNumbers)
	stored.UpdatedAt = result.Timestamp
	s.results[result.DrawID] = result.Clone()
	return 1, nil
}

func (s *DrawStore) GetDrawResult(_ context.Context, drawID uuid.UUID) (*domain.DrawResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.results[drawID].Clone(), nil
}

func (s *DrawStore) UpdateVerificationIfMatches(_ context.Context, drawID uuid.UUID, expected domain.VerificationStatus, update repository.VerificationUpdate) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.results[drawID]
	if !ok || stored.VerificationStatus != expected {
		return 0, nil
	}
	stored.VerificationStatus = update.Status
	if update.SubmissionID != "" {
		stored.SubmissionID = update.SubmissionID
	}
	if update.AttestationRef != "" {
		stored.AttestationRef = update.AttestationRef
	}
	at := update.At
	stored.VerificationUpdatedAt = &at
	return 1, nil
}

func (s *DrawStore) ListResultsByVerification(_ context.Context, status domain.VerificationStatus, limit int) ([]*domain.DrawResult, error) {
	s.mu.RLock()
	result := make([]*domain.DrawResult, 0)
	for _, r := range s.results {
		if r.VerificationStatus == status {
			result = append(result, r.Clone())
		}
	}
	s.mu.RUnlock()

	// oldest settlement first, matching the postgres ordering
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

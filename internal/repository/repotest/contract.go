// Package repotest holds behaviour tests every repository.Draw implementation must pass.
package repotest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/repository"
)

// NewDraw builds a PENDING draw with timestamps truncated to what postgres stores
func NewDraw(name string) *domain.Draw {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Draw{
		ID:          uuid.New(),
		Name:        name,
		Description: "weekly jackpot",
		StartDate:   now,
		EndDate:     now.Add(24 * time.Hour),
		Status:      domain.DrawStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewResult builds an UNVERIFIED result for drawID
func NewResult(drawID uuid.UUID, numbers ...int) *domain.DrawResult {
	return &domain.DrawResult{
		DrawID:               drawID,
		WinningNumbers:       numbers,
		Timestamp:            time.Now().UTC().Truncate(time.Microsecond),
		RandomnessProvenance: "simulator:" + uuid.NewString(),
		VerificationStatus:   domain.VerificationUnverified,
	}
}

// RunDrawContract runs the shared suite. newRepo must return an empty repository.
func RunDrawContract(t *testing.T, newRepo func(t *testing.T) repository.Draw) {
	t.Run("create and get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		d := NewDraw("Create and get")

		require.NoError(t, repo.CreateDraw(ctx, d))

		got, err := repo.GetDraw(ctx, d.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, d.Name, got.Name)
		assert.Equal(t, domain.DrawStatusPending, got.Status)
		assert.Empty(t, got.WinningNumbers)
		assert.True(t, d.EndDate.Equal(got.EndDate))
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		d := NewDraw("Duplicate")

		require.NoError(t, repo.CreateDraw(ctx, d))
		err := repo.CreateDraw(ctx, d)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("missing draw returns nil", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.GetDraw(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)

		res, err := repo.GetDrawResult(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("list filters by status and pages", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			d := NewDraw("Listed draw")
			d.CreatedAt = d.CreatedAt.Add(time.Duration(i) * time.Second)
			require.NoError(t, repo.CreateDraw(ctx, d))
		}
		started := NewDraw("Started draw")
		require.NoError(t, repo.CreateDraw(ctx, started))
		n, err := repo.UpdateDrawStatusIfMatches(ctx, started.ID, domain.DrawStatusPending, domain.DrawStatusInProgress, time.Now())
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		all, err := repo.ListDraws(ctx, repository.DrawFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 4)

		pending := domain.DrawStatusPending
		onlyPending, err := repo.ListDraws(ctx, repository.DrawFilter{Status: &pending})
		require.NoError(t, err)
		assert.Len(t, onlyPending, 3)

		page, err := repo.ListDraws(ctx, repository.DrawFilter{Status: &pending, Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, page, 1)
	})

	t.Run("status compare-and-swap", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		d := NewDraw("CAS draw")
		require.NoError(t, repo.CreateDraw(ctx, d))

		n, err := repo.UpdateDrawStatusIfMatches(ctx, d.ID, domain.DrawStatusInProgress, domain.DrawStatusCancelled, time.Now())
		require.NoError(t, err)
		assert.EqualValues(t, 0, n, "wrong expected status is a miss")

		n, err = repo.UpdateDrawStatusIfMatches(ctx, d.ID, domain.DrawStatusPending, domain.DrawStatusInProgress, time.Now())
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		n, err = repo.UpdateDrawStatusIfMatches(ctx, uuid.New(), domain.DrawStatusPending, domain.DrawStatusInProgress, time.Now())
		require.NoError(t, err)
		assert.EqualValues(t, 0, n, "unknown draw is a miss")
	})

	t.Run("details update only while expected status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		d := NewDraw("Original name")
		require.NoError(t, repo.CreateDraw(ctx, d))

		d.Name = "Renamed draw"
		n, err := repo.UpdateDrawDetailsIfMatches(ctx, d, domain.DrawStatusPending)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		n, err = repo.UpdateDrawDetailsIfMatches(ctx, d, domain.DrawStatusInProgress)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)

		got, err := repo.GetDraw(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed draw", got.Name)
	})

	t.Run("complete writes draw and result atomically", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		d := NewDraw("Completed draw")
		require.NoError(t, repo.CreateDraw(ctx, d))

		result := NewResult(d.ID, 3, 14, 15, 92)
		n, err := repo.CompleteDrawIfMatches(ctx, result, domain.DrawStatusInProgress)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n, "PENDING draw cannot complete")

		_, err = repo.UpdateDrawStatusIfMatches(ctx, d.ID, domain.DrawStatusPending, domain.DrawStatusInProgress, time.Now())
		require.NoError(t, err)

		n, err = repo.CompleteDrawIfMatches(ctx, result, domain.DrawStatusInProgress)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		got, err := repo.GetDraw(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DrawStatusCompleted, got.Status)
		assert.Equal(t, []int{3, 14, 15, 92}, got.WinningNumbers)

		stored, err := repo.GetDrawResult(ctx, d.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, result.WinningNumbers, stored.WinningNumbers)
		assert.Equal(t, result.RandomnessProvenance, stored.RandomnessProvenance)
		assert.Equal(t, domain.VerificationUnverified, stored.VerificationStatus)

		again := NewResult(d.ID, 1, 2, 3)
		n, err = repo.CompleteDrawIfMatches(ctx, again, domain.DrawStatusInProgress)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n, "second completion is a miss")
	})

	t.Run("concurrent completes have one winner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		d := NewDraw("Raced draw")
		require.NoError(t, repo.CreateDraw(ctx, d))
		_, err := repo.UpdateDrawStatusIfMatches(ctx, d.ID, domain.DrawStatusPending, domain.DrawStatusInProgress, time.Now())
		require.NoError(t, err)

		const racers = 10
		var wins atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				n, err := repo.CompleteDrawIfMatches(ctx, NewResult(d.ID, i+1), domain.DrawStatusInProgress)
				assert.NoError(t, err)
				wins.Add(n)
			}(i)
		}
		wg.Wait()

		assert.EqualValues(t, 1, wins.Load())
		draw, err := repo.GetDraw(ctx, d.ID)
		require.NoError(t, err)
		stored, err := repo.GetDrawResult(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, stored.WinningNumbers, draw.WinningNumbers)
	})

	t.Run("delete only with expected status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		d := NewDraw("Deleted draw")
		require.NoError(t, repo.CreateDraw(ctx, d))

		n, err := repo.DeleteDrawIfMatches(ctx, d.ID, domain.DrawStatusCancelled)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)

		n, err = repo.DeleteDrawIfMatches(ctx, d.ID, domain.DrawStatusPending)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		got, err := repo.GetDraw(ctx, d.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("verification compare-and-swap", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		d := NewDraw("Verified draw")
		require.NoError(t, repo.CreateDraw(ctx, d))
		_, err := repo.UpdateDrawStatusIfMatches(ctx, d.ID, domain.DrawStatusPending, domain.DrawStatusInProgress, time.Now())
		require.NoError(t, err)
		_, err = repo.CompleteDrawIfMatches(ctx, NewResult(d.ID, 7, 11), domain.DrawStatusInProgress)
		require.NoError(t, err)

		unverified, err := repo.ListResultsByVerification(ctx, domain.VerificationUnverified, 10)
		require.NoError(t, err)
		assert.Len(t, unverified, 1)

		n, err := repo.UpdateVerificationIfMatches(ctx, d.ID, domain.VerificationUnverified, repository.VerificationUpdate{
			Status:       domain.VerificationPending,
			SubmissionID: "sub-1",
			At:           time.Now(),
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		n, err = repo.UpdateVerificationIfMatches(ctx, d.ID, domain.VerificationUnverified, repository.VerificationUpdate{
			Status: domain.VerificationPending,
			At:     time.Now(),
		})
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)

		n, err = repo.UpdateVerificationIfMatches(ctx, d.ID, domain.VerificationPending, repository.VerificationUpdate{
			Status:         domain.VerificationVerified,
			AttestationRef: "0xabc",
			At:             time.Now(),
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		stored, err := repo.GetDrawResult(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.VerificationVerified, stored.VerificationStatus)
		assert.Equal(t, "sub-1", stored.SubmissionID, "empty submission id keeps the stored one")
		assert.Equal(t, "0xabc", stored.AttestationRef)
		assert.NotNil(t, stored.VerificationUpdatedAt)

		pending, err := repo.ListResultsByVerification(ctx, domain.VerificationPending, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)

		n, err = repo.DeleteDrawIfMatches(ctx, d.ID, domain.DrawStatusCompleted)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n, "draws with a result are never deleted")
	})
}

package lottery

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/event"
)

func TestCompleteDraw_ConcurrentCallersAgree(t *testing.T) {
	f := newFixture(t)
	d := f.startedDraw(t)

	const callers = 16
	results := make([]*domain.DrawResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = f.svc.CompleteDraw(callerCtx(), d.ID, 6, lotto)
		}(i)
	}
	close(start)
	wg.Wait()

	stored, err := f.svc.GetDrawResult(callerCtx(), d.ID)
	require.NoError(t, err)

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, stored.WinningNumbers, results[i].WinningNumbers)
		assert.Equal(t, stored.RandomnessProvenance, results[i].RandomnessProvenance)
	}

	completed := 0
	for _, evt := range f.bus.drain() {
		if evt.Type == event.DrawCompleted {
			completed++
		}
	}
	assert.Equal(t, 1, completed, "exactly one settlement is published")
}

func TestCompleteAndCancel_Race(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t)
		d := f.startedDraw(t)

		var (
			wg        sync.WaitGroup
			result    *domain.DrawResult
			completeE error
			cancelE   error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			result, completeE = f.svc.CompleteDraw(callerCtx(), d.ID, 6, lotto)
		}()
		go func() {
			defer wg.Done()
			_, cancelE = f.svc.CancelDraw(callerCtx(), d.ID)
		}()
		wg.Wait()

		stored, err := f.svc.GetDraw(callerCtx(), d.ID)
		require.NoError(t, err)

		switch stored.Status {
		case domain.DrawStatusCompleted:
			require.NoError(t, completeE)
			assert.ErrorIs(t, cancelE, domain.ErrConflict)
			assert.Equal(t, result.WinningNumbers, stored.WinningNumbers)
		case domain.DrawStatusCancelled:
			require.NoError(t, cancelE)
			assert.ErrorIs(t, completeE, domain.ErrConflict)
			assert.Empty(t, stored.WinningNumbers)
		default:
			t.Fatalf("unexpected status %s", stored.Status)
		}
	}
}

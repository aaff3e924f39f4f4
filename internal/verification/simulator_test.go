package verification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/repository/repotest"
)

func TestSimulator_SubmitAndResolve(t *testing.T) {
	sim := NewSimulator(false)
	ctx := context.Background()
	drawID := uuid.New()

	id, err := sim.Submit(ctx, drawID, repotest.NewResult(drawID, 1, 2, 3))
	require.NoError(t, err)

	got, ok := sim.SubmissionFor(drawID)
	require.True(t, ok)
	assert.Equal(t, id, got)

	outcome, err := sim.Status(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, outcome)

	resolved, err := sim.Resolve(id, true)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationVerified, resolved.Status())

	// first resolution wins
	again, err := sim.Resolve(id, false)
	require.NoError(t, err)
	assert.True(t, again.Verified)

	outcome, err = sim.Status(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, resolved, *outcome)
}

func TestSimulator_AutoVerify(t *testing.T) {
	sim := NewSimulator(true)
	ctx := context.Background()

	id, err := sim.Submit(ctx, uuid.New(), repotest.NewResult(uuid.New(), 4))
	require.NoError(t, err)

	outcome, err := sim.Status(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.True(t, outcome.Verified)
}

func TestSimulator_FailuresAndUnknown(t *testing.T) {
	sim := NewSimulator(false)
	ctx := context.Background()
	sim.FailNext(nil)

	_, err := sim.Submit(ctx, uuid.New(), repotest.NewResult(uuid.New(), 4))
	assert.ErrorIs(t, err, domain.ErrVerificationUnavailable)
	assert.Equal(t, 1, sim.Submits())

	_, err = sim.Status(ctx, "missing")
	assert.ErrorIs(t, err, ErrUnknownSubmission)

	_, err = sim.Resolve("missing", true)
	assert.ErrorIs(t, err, ErrUnknownSubmission)
}

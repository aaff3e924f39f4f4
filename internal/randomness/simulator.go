package randomness

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/domain"
)

// Simulator is a local pseudo-random Source for development and tests
type Simulator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	unique bool

	// failures queued by FailNext; each Draw consumes one
	failures []error
	calls    int
	now      func() time.Time
}

var _ Source = (*Simulator)(nil)

// NewSimulator returns a simulator seeded with seed. The same seed yields the
// same sequence of batches.
func NewSimulator(seed uint64, unique bool) *Simulator {
	return &Simulator{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		unique: unique,
		now:    time.Now,
	}
}

// FailNext makes the next len(errs) calls return those errors in order.
// A nil entry defaults to ErrRandomnessUnavailable.
func (s *Simulator) FailNext(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, err := range errs {
		if err == nil {
			err = fmt.Errorf("%w: simulated outage", domain.ErrRandomnessUnavailable)
		}
		s.failures = append(s.failures, err)
	}
}

// Calls returns how many times Draw has been invoked
func (s *Simulator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Simulator) Draw(ctx context.Context, count, min, max int) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRandomnessUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if len(s.failures) > 0 {
		err := s.failures[0]
		s.failures = s.failures[1:]
		return nil, err
	}

	if err := ValidateRequest(count, min, max, s.unique); err != nil {
		return nil, err
	}

	size := domain.NumberRange{Min: min, Max: max}.Size()
	numbers := make([]int, 0, count)
	if s.unique {
		// partial Fisher-Yates over an implicit [min, max] slice
		swapped := make(map[int]int, count)
		for i := 0; i < count; i++ {
			j := i + s.rng.IntN(size-i)
			vj, ok := swapped[j]
			if !ok {
				vj = j
			}
			vi, ok := swapped[i]
			if !ok {
				vi = i
			}
			swapped[j] = vi
			numbers = append(numbers, min+vj)
		}
	} else {
		for i := 0; i < count; i++ {
			numbers = append(numbers, min+s.rng.IntN(size))
		}
	}

	return &Batch{
		Numbers: numbers,
		Provenance: Provenance{
			Source:      SourceNameSimulator,
			BatchID:     uuid.NewString(),
			GeneratedAt: s.now().UTC(),
		},
	}, nil
}

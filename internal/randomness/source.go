// Package randomness provides the winning-number feeds a draw settles against.
package randomness

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/QuPot_Go/internal/domain"
)

// Source produces count numbers in [min, max].
//
// Errors wrap domain.ErrInvalidRange when the request can never succeed and
// domain.ErrRandomnessUnavailable for everything that might succeed on retry.
type Source interface {
	Draw(ctx context.Context, count, min, max int) (*Batch, error)
}

// Provenance identifies where a batch came from
type Provenance struct {
	Source      string    `json:"source"`
	BatchID     string    `json:"batch_id"`
	GeneratedAt time.Time `json:"generated_at"`
}

// String renders the provenance tag stored with a draw result
func (p Provenance) String() string {
	return p.Source + ":" + p.BatchID
}

// Batch is one response from a Source
type Batch struct {
	Numbers    []int
	Provenance Provenance
}

// ValidateRequest checks count and range the same way the quantum service does
func ValidateRequest(count, min, max int, unique bool) error {
	r := domain.NumberRange{Min: min, Max: max}
	if err := r.Validate(); err != nil {
		return err
	}
	if count <= 0 {
		return fmt.Errorf("%w: count must be positive, got %d", domain.ErrInvalidRange, count)
	}
	if unique && count > r.Size() {
		return fmt.Errorf("%w: cannot draw %d unique numbers in range %d-%d", domain.ErrInvalidRange, count, min, max)
	}
	return nil
}

// ValidateBatch rejects responses that do not honour the request
func ValidateBatch(b *Batch, count, min, max int, unique bool) error {
	if b == nil {
		return fmt.Errorf("%w: empty response", domain.ErrRandomnessUnavailable)
	}
	if len(b.Numbers) != count {
		return fmt.Errorf("%w: expected %d numbers, got %d", domain.ErrRandomnessUnavailable, count, len(b.Numbers))
	}
	seen := make(map[int]struct{}, len(b.Numbers))
	for _, n := range b.Numbers {
		if n < min || n > max {
			return fmt.Errorf("%w: number %d outside %d-%d", domain.ErrRandomnessUnavailable, n, min, max)
		}
		if _, dup := seen[n]; dup && unique {
			return fmt.Errorf("%w: duplicate number %d in unique batch", domain.ErrRandomnessUnavailable, n)
		}
		seen[n] = struct{}{}
	}
	return nil
}

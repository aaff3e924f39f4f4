package randomness

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/logger"
)

// RateLimitedSource throttles calls to an upstream Source
type RateLimitedSource struct {
	next    Source
	limiter *rate.Limiter
}

var _ Source = (*RateLimitedSource)(nil)

// NewRateLimitedSource allows perSecond calls with the given burst.
// A non-positive rate disables limiting.
func NewRateLimitedSource(next Source, perSecond float64, burst int) *RateLimitedSource {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedSource{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (s *RateLimitedSource) Draw(ctx context.Context, count, min, max int) (*Batch, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		logger.FromContext(ctx).Warn(LogMsgRateLimitWaitFailed, "error", err)
		return nil, fmt.Errorf("%w: rate limit: %v", domain.ErrRandomnessUnavailable, err)
	}
	return s.next.Draw(ctx, count, min, max)
}

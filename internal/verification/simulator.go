package verification

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/domain"
)

type submission struct {
	drawID  uuid.UUID
	outcome *domain.VerificationOutcome
}

// Simulator keeps submissions in memory until Resolve is called.
// With AutoVerify every submission is confirmed immediately.
type Simulator struct {
	mu          sync.Mutex
	submissions map[string]*submission
	byDraw      map[uuid.UUID]string
	failures    []error
	submits     int
	autoVerify  bool
}

var _ Source = (*Simulator)(nil)

func NewSimulator(autoVerify bool) *Simulator {
	return &Simulator{
		submissions: make(map[string]*submission),
		byDraw:      make(map[uuid.UUID]string),
		autoVerify:  autoVerify,
	}
}

// FailNext makes the next len(errs) Submit or Status calls fail.
// A nil entry defaults to ErrVerificationUnavailable.
func (s *Simulator) FailNext(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, err := range errs {
		if err == nil {
			err = fmt.Errorf("%w: simulated outage", domain.ErrVerificationUnavailable)
		}
		s.failures = append(s.failures, err)
	}
}

func (s *Simulator) popFailure() error {
	if len(s.failures) == 0 {
		return nil
	}
	err := s.failures[0]
	s.failures = s.failures[1:]
	return err
}

func (s *Simulator) Submit(ctx context.Context, drawID uuid.UUID, result *domain.DrawResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrVerificationUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submits++
	if err := s.popFailure(); err != nil {
		return "", err
	}

	id := "sim-" + uuid.NewString()
	sub := &submission{drawID: drawID}
	if s.autoVerify {
		sub.outcome = &domain.VerificationOutcome{SubmissionID: id, Verified: true, AttestationRef: "sim:" + drawID.String()}
	}
	s.submissions[id] = sub
	s.byDraw[drawID] = id
	return id, nil
}

func (s *Simulator) Status(ctx context.Context, submissionID string) (*domain.VerificationOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVerificationUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.popFailure(); err != nil {
		return nil, err
	}

	sub, ok := s.submissions[submissionID]
	if !ok {
		return nil, fmt.Errorf("%w: %w", domain.ErrVerificationUnavailable, ErrUnknownSubmission)
	}
	if sub.outcome == nil {
		return nil, nil
	}
	out := *sub.outcome
	return &out, nil
}

// Resolve settles a submission the way the external callback would and
// returns the outcome to record.
func (s *Simulator) Resolve(submissionID string, verified bool) (domain.VerificationOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.submissions[submissionID]
	if !ok {
		return domain.VerificationOutcome{}, ErrUnknownSubmission
	}
	if sub.outcome == nil {
		sub.outcome = &domain.VerificationOutcome{
			SubmissionID:   submissionID,
			Verified:       verified,
			AttestationRef: "sim:" + sub.drawID.String(),
		}
	}
	return *sub.outcome, nil
}

// SubmissionFor returns the latest submission id recorded for a draw
func (s *Simulator) SubmissionFor(drawID uuid.UUID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byDraw[drawID]
	return id, ok
}

// Submits returns how many times Submit was called
func (s *Simulator) Submits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submits
}

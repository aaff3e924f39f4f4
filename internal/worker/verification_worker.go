package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/event"
	"github.com/osse101/QuPot_Go/internal/lottery"
	"github.com/osse101/QuPot_Go/internal/logger"
	"github.com/osse101/QuPot_Go/internal/metrics"
)

// maxRetryShift caps the exponential retry delay at retryDelay * 2^maxRetryShift
const maxRetryShift = 6

// VerificationWorker submits settled draws for verification off the request path.
// Failed submissions are retried with exponential delay; anything still
// outstanding after the retries is picked up by VerificationSweep.
type VerificationWorker struct {
	BaseWorker
	service    lottery.Service
	pool       *Pool
	maxRetries int
	retryDelay time.Duration
}

// NewVerificationWorker creates a worker that feeds jobs into pool
func NewVerificationWorker(service lottery.Service, pool *Pool, maxRetries int, retryDelay time.Duration) *VerificationWorker {
	if maxRetries < 0 {
		maxRetries = DefaultVerificationMaxRetries
	}
	if retryDelay <= 0 {
		retryDelay = DefaultVerificationRetryDelay
	}
	w := &VerificationWorker{
		service:    service,
		pool:       pool,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
	w.init()
	return w
}

// Subscribe subscribes the worker to draw settlements
func (w *VerificationWorker) Subscribe(bus event.Bus) {
	bus.Subscribe(event.DrawCompleted, w.handleDrawCompleted)
}

// handleDrawCompleted runs inside the publisher; it only queues work
func (w *VerificationWorker) handleDrawCompleted(ctx context.Context, e event.Event) error {
	payload, err := event.DecodePayload[domain.DrawCompletedPayloadV1](e.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgVerificationBadPayload, "error", err)
		return nil
	}
	drawID, err := uuid.Parse(payload.DrawID)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgVerificationBadPayload, "draw_id", payload.DrawID, "error", err)
		return nil
	}
	w.enqueue(ctx, drawID, 1)
	return nil
}

func (w *VerificationWorker) enqueue(ctx context.Context, drawID uuid.UUID, attempt int) {
	job := &verificationJob{worker: w, drawID: drawID, attempt: attempt}
	if !w.pool.TryEnqueue(job) {
		logger.FromContext(ctx).Warn(LogMsgVerificationQueueFull, "draw_id", drawID)
		return
	}
	logger.FromContext(ctx).Debug(LogMsgVerificationQueued, "draw_id", drawID, "attempt", attempt)
}

func (w *VerificationWorker) retryDelayFor(attempt int) time.Duration {
	shift := attempt - 1
	if shift > maxRetryShift {
		shift = maxRetryShift
	}
	return w.retryDelay * time.Duration(1<<shift)
}

// Shutdown cancels pending retries. The pool is stopped by its owner.
func (w *VerificationWorker) Shutdown(ctx context.Context) error {
	return w.shutdownInternal(ctx, VerificationWorkerName)
}

type verificationJob struct {
	worker  *VerificationWorker
	drawID  uuid.UUID
	attempt int
}

func (j *verificationJob) Process(ctx context.Context) error {
	w := j.worker
	log := logger.FromContext(ctx)

	_, err := verifyDraw(ctx, w.service, j.drawID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrVerificationUnavailable) {
		return fmt.Errorf("verify draw %s: %w", j.drawID, err)
	}
	if j.attempt > w.maxRetries {
		log.Warn(LogMsgVerificationGaveUp, "draw_id", j.drawID, "attempts", j.attempt, "error", err)
		return nil
	}

	delay := w.retryDelayFor(j.attempt)
	log.Warn(LogMsgVerificationRetrying, "draw_id", j.drawID, "attempt", j.attempt, "delay", delay, "error", err)
	next := j.attempt + 1
	w.schedule(j.drawID, delay, func() {
		w.enqueue(context.Background(), j.drawID, next)
	})
	return nil
}

// verifyDraw submits an UNVERIFIED result and immediately polls once, so
// collaborators that answer synchronously settle in a single pass.
func verifyDraw(ctx context.Context, svc lottery.Service, drawID uuid.UUID) (*domain.DrawResult, error) {
	result, err := svc.SubmitVerification(ctx, drawID)
	if err != nil {
		return nil, err
	}
	if result.VerificationStatus == domain.VerificationPending {
		return svc.ReconcileVerification(ctx, drawID)
	}
	return result, nil
}

// VerificationSweep is a periodic Job that resubmits UNVERIFIED results and
// reconciles PENDING ones.
type VerificationSweep struct {
	service   lottery.Service
	batchSize int
}

// NewVerificationSweep creates a sweep handling up to batchSize results per phase
func NewVerificationSweep(service lottery.Service, batchSize int) *VerificationSweep {
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}
	return &VerificationSweep{service: service, batchSize: batchSize}
}

func (s *VerificationSweep) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	unverified, err := s.service.ListResultsByVerification(ctx, domain.VerificationUnverified, s.batchSize)
	if err != nil {
		return err
	}
	pending, err := s.service.ListResultsByVerification(ctx, domain.VerificationPending, s.batchSize)
	if err != nil {
		return err
	}
	metrics.VerificationSweepSize.WithLabelValues(metrics.PhaseSubmit).Set(float64(len(unverified)))
	metrics.VerificationSweepSize.WithLabelValues(metrics.PhaseReconcile).Set(float64(len(pending)))
	log.Debug(LogMsgVerificationSweepStarted, "unverified", len(unverified), "pending", len(pending))

	failed := 0
	for _, r := range unverified {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := verifyDraw(ctx, s.service, r.DrawID); err != nil {
			failed++
			log.Warn(LogMsgVerificationSweepItemErr, "draw_id", r.DrawID, "phase", metrics.PhaseSubmit, "error", err)
		}
	}
	for _, r := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := s.service.ReconcileVerification(ctx, r.DrawID); err != nil {
			failed++
			log.Warn(LogMsgVerificationSweepItemErr, "draw_id", r.DrawID, "phase", metrics.PhaseReconcile, "error", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("verification sweep: %d of %d results failed", failed, len(unverified)+len(pending))
	}
	return nil
}

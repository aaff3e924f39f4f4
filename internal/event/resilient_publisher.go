package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/QuPot_Go/internal/logger"
)

type retryEntry struct {
	ctx       context.Context
	event     Event
	attempts  int
	lastError error
	notBefore time.Time
}

// ResilientPublisher wraps a Bus with asynchronous retry and a JSONL dead-letter file.
// A publish that fails is queued and retried with exponential delay; once the
// retries are exhausted the event is written to the dead-letter file.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	rp.wg.Add(1)
	go rp.retryWorker()

	return rp, nil
}

// PublishWithRetry publishes evt and never returns an error to the caller.
// Failures are retried in the background.
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	err := rp.bus.Publish(ctx, evt)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", evt.Type,
		"error", err)

	rp.enqueue(retryEntry{
		// Retries outlive the request, but keep its values (request id)
		ctx:       context.WithoutCancel(ctx),
		event:     evt,
		attempts:  1,
		lastError: err,
		notBefore: time.Now().Add(CalculateRetryDelay(rp.retryDelay, 1)),
	})
}

// Publish satisfies Bus so the publisher can stand in for the raw bus.
func (rp *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	rp.PublishWithRetry(ctx, evt)
	return nil
}

// Subscribe delegates to the inner bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

func (rp *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case <-rp.shutdown:
		rp.writeDeadLetter(entry)
		return
	default:
	}

	select {
	case rp.retryQueue <- entry:
	default:
		logger.Warn(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		rp.writeDeadLetter(entry)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		select {
		case entry := <-rp.retryQueue:
			rp.waitUntil(entry.notBefore)
			rp.retry(entry)
		case <-rp.shutdown:
			rp.drain()
			return
		}
	}
}

// waitUntil sleeps until t, returning early on shutdown
func (rp *ResilientPublisher) waitUntil(t time.Time) {
	d := time.Until(t)
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-rp.shutdown:
	}
}

func (rp *ResilientPublisher) retry(entry retryEntry) {
	err := rp.bus.Publish(entry.ctx, entry.event)
	if err == nil {
		logger.FromContext(entry.ctx).Info(LogMsgEventRetrySucceeded,
			"event_type", entry.event.Type,
			"attempt", entry.attempts+1)
		return
	}

	entry.attempts++
	entry.lastError = err

	// attempts counts the initial publish, so maxRetries retries allow maxRetries+1 attempts
	if entry.attempts > rp.maxRetries {
		logger.FromContext(entry.ctx).Error(LogMsgEventRetryExhausted,
			"event_type", entry.event.Type,
			"attempts", entry.attempts,
			"error", err)
		rp.writeDeadLetter(entry)
		return
	}

	logger.FromContext(entry.ctx).Warn(LogMsgEventRetryFailed,
		"event_type", entry.event.Type,
		"attempt", entry.attempts,
		"error", err)

	entry.notBefore = time.Now().Add(CalculateRetryDelay(rp.retryDelay, entry.attempts))
	rp.enqueue(entry)
}

// drain gives every queued event one final attempt before dead-lettering it
func (rp *ResilientPublisher) drain() {
	for {
		select {
		case entry := <-rp.retryQueue:
			if err := rp.bus.Publish(entry.ctx, entry.event); err != nil {
				entry.attempts++
				entry.lastError = err
				rp.writeDeadLetter(entry)
			}
		default:
			return
		}
	}
}

func (rp *ResilientPublisher) writeDeadLetter(entry retryEntry) {
	if err := rp.deadLetter.Write(entry.event, entry.attempts, entry.lastError); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", entry.event.Type, "error", err)
	}
}

// Shutdown stops the retry worker after draining the queue. It returns
// ctx.Err() if the drain does not finish in time.
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.shutdownOnce.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if rp.deadLetter != nil {
			return rp.deadLetter.Close()
		}
		return nil
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}

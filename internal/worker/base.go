package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/QuPot_Go/internal/logger"
)

// BaseWorker provides common functionality for background workers that manage
// per-draw retry timers
type BaseWorker struct {
	mu       sync.Mutex
	timers   map[uuid.UUID]*time.Timer
	shutdown chan struct{}
	closed   bool
}

func (w *BaseWorker) init() {
	if w.timers == nil {
		w.timers = make(map[uuid.UUID]*time.Timer)
	}
	if w.shutdown == nil {
		w.shutdown = make(chan struct{})
	}
}

// schedule runs fn after delay, replacing any pending timer for id.
// It returns false once the worker is shutting down.
func (w *BaseWorker) schedule(id uuid.UUID, delay time.Duration, fn func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	if existing, ok := w.timers[id]; ok {
		existing.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		if w.timers[id] == timer {
			delete(w.timers, id)
		}
		w.mu.Unlock()
		fn()
	})
	w.timers[id] = timer
	return true
}

func (w *BaseWorker) pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

func (w *BaseWorker) shutdownInternal(ctx context.Context, workerName string) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down " + workerName)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.shutdown)
	}
	for id, timer := range w.timers {
		timer.Stop()
		log.Info("Cancelled pending "+workerName+" retry", "draw_id", id)
	}
	w.timers = make(map[uuid.UUID]*time.Timer)

	log.Info(workerName + " shutdown complete")
	return nil
}

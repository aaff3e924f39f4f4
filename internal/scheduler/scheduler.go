// Package scheduler feeds periodic jobs, such as the verification sweep,
// into the shared worker pool.
package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/QuPot_Go/internal/logger"
	"github.com/osse101/QuPot_Go/internal/worker"
)

const (
	LogMsgTickSkipped = "Scheduled job skipped, worker queue full"
	LogMsgJobStopped  = "Scheduled job stopped"
)

// Enqueuer is the part of worker.Pool the scheduler needs
type Enqueuer interface {
	TryEnqueue(job worker.Job) bool
}

type entry struct {
	fired   atomic.Int64
	skipped atomic.Int64
}

// Scheduler enqueues registered jobs on fixed intervals until stopped
type Scheduler struct {
	pool     Enqueuer
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu      sync.Mutex
	entries map[string]*entry
}

func New(pool Enqueuer) *Scheduler {
	return &Scheduler{
		pool:    pool,
		quit:    make(chan struct{}),
		entries: make(map[string]*entry),
	}
}

// Schedule enqueues job every interval. With immediate set, the first run is
// enqueued right away so work left over from a previous process is picked up
// at startup. A tick that finds the queue full is dropped.
func (s *Scheduler) Schedule(name string, interval time.Duration, immediate bool, job worker.Job) {
	e := &entry{}
	s.mu.Lock()
	s.entries[name] = e
	s.mu.Unlock()

	fire := func() {
		if s.pool.TryEnqueue(job) {
			e.fired.Add(1)
			return
		}
		e.skipped.Add(1)
		logger.Warn(LogMsgTickSkipped, "job", name)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer logger.Debug(LogMsgJobStopped, "job", name)

		if immediate {
			fire()
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fire()
			case <-s.quit:
				return
			}
		}
	}()
}

// Stats reports how often the named job was enqueued and how often a tick was dropped
func (s *Scheduler) Stats(name string) (fired, skipped int64) {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return 0, 0
	}
	return e.fired.Load(), e.skipped.Load()
}

// Stop halts every job and waits for the tick goroutines to exit. Safe to call twice.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}

package leaktest

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recorder captures Errorf so a leak can be asserted on without failing
type recorder struct {
	testing.TB
	failures []string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func TestSettled_Clean(t *testing.T) {
	rec := &recorder{TB: t}
	Snapshot(rec).Settled(0)
	assert.Empty(t, rec.failures)
}

func TestSettled_SlackCoversParkedGoroutine(t *testing.T) {
	rec := &recorder{TB: t}
	b := Snapshot(rec)

	done := make(chan struct{})
	go func() { <-done }()
	b.Settled(1)
	close(done)

	assert.Empty(t, rec.failures)
}

func TestSettled_WaitsForSlowExit(t *testing.T) {
	rec := &recorder{TB: t}
	b := Snapshot(rec)

	go time.Sleep(50 * time.Millisecond)
	b.Settled(0)

	assert.Empty(t, rec.failures)
}

func TestSettled_ReportsLeak(t *testing.T) {
	rec := &recorder{TB: t}
	b := Snapshot(rec)

	done := make(chan struct{})
	defer close(done)
	go func() { <-done }()
	b.Settled(0)

	if assert.Len(t, rec.failures, 1) {
		assert.Contains(t, rec.failures[0], "1 goroutine(s) still running")
		assert.Contains(t, rec.failures[0], "goroutine ")
	}
}

func TestRun_WaitGroupWorkers(t *testing.T) {
	Run(t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(time.Millisecond)
			}()
		}
		wg.Wait()
	})
}

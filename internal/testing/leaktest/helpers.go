// Package leaktest detects goroutines left behind by pools, workers and publishers.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleTimeout = time.Second
	pollInterval  = 10 * time.Millisecond
	maxStackDump  = 64 << 10
)

// Baseline is the goroutine count observed when a test began
type Baseline struct {
	tb    testing.TB
	count int
}

// Snapshot records the current goroutine count after letting
// just-finished goroutines from earlier tests unwind.
func Snapshot(tb testing.TB) *Baseline {
	tb.Helper()
	runtime.Gosched()
	time.Sleep(pollInterval)
	return &Baseline{tb: tb, count: runtime.NumGoroutine()}
}

// Settled waits for the goroutine count to return within slack of the
// baseline. On timeout the test fails with a dump of all live stacks.
func (b *Baseline) Settled(slack int) {
	b.tb.Helper()

	now := runtime.NumGoroutine()
	for deadline := time.Now().Add(settleTimeout); now-b.count > slack && time.Now().Before(deadline); {
		time.Sleep(pollInterval)
		now = runtime.NumGoroutine()
	}
	if extra := now - b.count; extra > slack {
		buf := make([]byte, maxStackDump)
		buf = buf[:runtime.Stack(buf, true)]
		b.tb.Errorf("%d goroutine(s) still running (baseline %d, now %d, slack %d)\n%s",
			extra, b.count, now, slack, buf)
	}
}

// Run executes fn and fails tb if fn leaves any goroutine behind
func Run(tb testing.TB, fn func()) {
	tb.Helper()
	b := Snapshot(tb)
	fn()
	b.Settled(0)
}

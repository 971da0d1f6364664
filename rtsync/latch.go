package rtsync

import (
	"sync/atomic"

	"github.com/weos-rt/weos/rtos"
	"github.com/weos-rt/weos/twq"
)

// Latch is a single-use downward counter with an owning twq.Queue (spec.md
// §4.F "latch"). Close must be called once no more waiters will enroll;
// callers must not call Wait/CountDownAndWait afterward (spec.md §4.F
// "Destructor calls notify_all(); callers must not invoke wait()
// afterward").
type Latch struct {
	counter  atomic.Int64
	queue    *twq.Queue
	provider rtos.Provider
}

// NewLatch creates a Latch initialized to n (n must be ≥ 0).
func NewLatch(provider rtos.Provider, n int64) *Latch {
	l := &Latch{queue: twq.New(provider), provider: provider}
	l.counter.Store(n)
	return l
}

// CountDown atomically subtracts n from the counter; if the result is ≤ 0
// and the prior value was still positive, it notifies every waiter.
func (l *Latch) CountDown(n int64) {
	for {
		old := l.counter.Load()
		next := old - n
		if l.counter.CompareAndSwap(old, next) {
			if next <= 0 && old > 0 {
				l.queue.NotifyAll()
			}
			return
		}
	}
}

// Wait enrolls on the queue if the counter is still positive, otherwise
// returns immediately.
func (l *Latch) Wait() {
	if l.counter.Load() <= 0 {
		return
	}
	w := l.queue.Enroll(currentPriority(l.provider))
	if l.counter.Load() <= 0 {
		w.Unlink()
		return
	}
	w.Wait()
}

// CountDownAndWait decrements by one then waits if the result is still
// positive (spec.md §4.F "count_down_and_wait()").
func (l *Latch) CountDownAndWait() {
	l.CountDown(1)
	l.Wait()
}

// IsReady reports whether the counter has reached zero or below.
func (l *Latch) IsReady() bool { return l.counter.Load() <= 0 }

// Close notifies every remaining waiter, mirroring the original's
// destructor.
func (l *Latch) Close() { l.queue.NotifyAll() }

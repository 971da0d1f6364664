package rtsync

import (
	"time"

	"github.com/weos-rt/weos/rtos"
	"github.com/weos-rt/weos/twq"
)

// Locker is the lock interface CondVar.Wait operates on — Mutex,
// RecursiveMutex, and TimedMutex all satisfy it.
type Locker interface {
	Lock() error
	Unlock() error
}

// CondVar owns a twq.Queue and implements spec.md §4.F's
// "condition_variable": register, release the caller's lock, block,
// re-acquire the lock regardless of how the wait ended. notify_one/
// notify_all are both ISR-safe (spec.md §5).
type CondVar struct {
	queue    *twq.Queue
	provider rtos.Provider
}

// NewCondVar creates a CondVar backed by provider.
func NewCondVar(provider rtos.Provider) *CondVar {
	return &CondVar{queue: twq.New(provider), provider: provider}
}

// Wait registers, unlocks, blocks with no deadline, then re-locks.
func (c *CondVar) Wait(lock Locker) {
	w := c.queue.Enroll(currentPriority(c.provider))
	lock.Unlock()
	w.Wait()
	lock.Lock()
}

// WaitFor is Wait bounded by d. It returns true ("no_timeout") if notified,
// or if Unlink reports a racing signal after the deadline passed (spec.md
// §4.D/§4.F); lock is always re-acquired before returning.
func (c *CondVar) WaitFor(lock Locker, d time.Duration) bool {
	w := c.queue.Enroll(currentPriority(c.provider))
	lock.Unlock()
	ok := w.WaitFor(d)
	if !ok {
		ok = w.Unlink()
	}
	lock.Lock()
	return ok
}

// WaitUntil is WaitFor against an absolute deadline.
func (c *CondVar) WaitUntil(lock Locker, deadline time.Time) bool {
	return c.WaitFor(lock, time.Until(deadline))
}

// WaitPredicate loops Wait until pred returns true, re-checking pred under
// the lock each time it wakes (spec.md §4.F "Predicate overloads loop").
func (c *CondVar) WaitPredicate(lock Locker, pred func() bool) {
	for !pred() {
		c.Wait(lock)
	}
}

// WaitForPredicate loops WaitFor(lock, d, ...) until pred is true or a wake
// without pred becoming true occurs after the deadline. Per spec.md §9's
// documented open question, this is preserved verbatim rather than fixed:
// each spurious wake re-waits the *full* d again, so the overall deadline
// can drift arbitrarily far past the caller's original budget if repeated
// spurious wakes occur. Callers that need a hard deadline should use
// WaitFor directly in their own loop instead.
func (c *CondVar) WaitForPredicate(lock Locker, d time.Duration, pred func() bool) bool {
	for !pred() {
		if !c.WaitFor(lock, d) {
			return pred()
		}
	}
	return true
}

// NotifyOne wakes the highest-priority waiter.
func (c *CondVar) NotifyOne() { c.queue.NotifyOne() }

// NotifyAll wakes every waiter.
func (c *CondVar) NotifyAll() { c.queue.NotifyAll() }

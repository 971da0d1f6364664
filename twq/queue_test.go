package twq_test

import (
	"testing"
	"time"

	"github.com/weos-rt/weos/config"
	"github.com/weos-rt/weos/rtos/simrtos"
	"github.com/weos-rt/weos/twq"
)

func newQueue(t *testing.T) (*twq.Queue, *simrtos.Provider) {
	t.Helper()
	p := simrtos.New(config.Default(), nil)
	return twq.New(p), p
}

// TestNotifyOneOrdersByPriority Requires: notify_one wakes enrolled
// waiters in strictly decreasing priority order (spec.md §8 property 1,
// scenario S1).
func TestNotifyOneOrdersByPriority(t *testing.T) {
	q, _ := newQueue(t)
	w10 := q.Enroll(10)
	w30 := q.Enroll(30)
	w20 := q.Enroll(20)

	q.NotifyOne()
	if !w30.WaitFor(time.Second) {
		t.Fatalf("highest priority waiter (30) was not woken first")
	}
	q.NotifyOne()
	if !w20.WaitFor(time.Second) {
		t.Fatalf("second waiter (20) was not woken second")
	}
	q.NotifyOne()
	if !w10.WaitFor(time.Second) {
		t.Fatalf("lowest priority waiter (10) was not woken last")
	}
}

// TestFIFOWithinPriority Requires: waiters enrolled at the same priority
// wake in enrollment order.
func TestFIFOWithinPriority(t *testing.T) {
	q, _ := newQueue(t)
	first := q.Enroll(5)
	second := q.Enroll(5)

	q.NotifyOne()
	if !first.WaitFor(time.Second) {
		t.Fatalf("first-enrolled waiter was not woken first")
	}
	if second.WaitFor(10 * time.Millisecond) {
		t.Fatalf("second waiter woken before being notified")
	}
}

// TestUnlinkReconcilesRace Requires: exactly one of {WaitFor returns true,
// WaitFor returns false and Unlink returns true} holds for any waiter —
// the signal is never lost (spec.md §8 property 2).
func TestUnlinkReconcilesRace(t *testing.T) {
	q, _ := newQueue(t)
	w := q.Enroll(1)

	done := make(chan bool, 1)
	notified := make(chan struct{})
	go func() {
		time.Sleep(5 * time.Millisecond)
		q.NotifyOne()
		close(notified)
	}()
	woke := w.WaitFor(2 * time.Millisecond)
	if woke {
		done <- true
		return
	}
	<-notified
	unlinkWoke := w.Unlink()
	done <- unlinkWoke
	// One of the two branches above must report success: WaitFor times out
	// before NotifyOne fires, and Unlink runs only after it has fired.
	if !<-done {
		t.Fatalf("notification was lost: neither WaitFor nor Unlink observed it")
	}
}

// TestNotifyAllWakesEveryoneAndEmptiesQueue Requires: notify_all wakes all
// N enrolled waiters and leaves the queue empty afterward (spec.md §8
// property 3).
func TestNotifyAllWakesEveryoneAndEmptiesQueue(t *testing.T) {
	q, p := newQueue(t)
	const n = 8
	waiters := make([]*twq.Waiter, n)
	for i := range waiters {
		waiters[i] = q.Enroll(i)
	}

	p.RunInInterrupt(q.NotifyAll)

	for i, w := range waiters {
		if !w.WaitFor(time.Second) {
			t.Fatalf("waiter %d was not woken by notify_all", i)
		}
	}
	if !q.Empty() {
		t.Fatalf("queue head is not nil after notify_all")
	}
}

// TestUnlinkBeforeNotifyRemovesWaiter Requires: a waiter that unlinks
// itself before any notification is cleanly removed and reports not-woken.
func TestUnlinkBeforeNotifyRemovesWaiter(t *testing.T) {
	q, _ := newQueue(t)
	w := q.Enroll(1)
	if w.Unlink() {
		t.Fatalf("Unlink on a never-notified waiter reported woken")
	}
	if !q.Empty() {
		t.Fatalf("queue should be empty after the only waiter unlinked itself")
	}
}

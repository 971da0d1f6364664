// Package twq implements the thread-wait queue: a priority-ordered,
// interrupt-safe, lock-free singly-linked list of blocked callers, the
// substrate every other synchronization primitive in this module (mutex,
// condition variable, latch, synchronic, and the blocking paths of future)
// is built on (spec.md §2 component D, §3, §4.D — the hardest, most reused
// piece). Adapted from nsync's waiter/dll machinery (waiter.go, cv.go): the
// shape (one atomic head, CAS-linked nodes, a binary semaphore per waiter)
// is the same idea nsync's condition variable uses internally, generalized
// here into its own priority-ordered, externally usable primitive the way
// spec.md §4.D describes, rather than nsync's private doubly-linked list.
//
// One representational departure from the original: the original packs a
// next-pointer and two status bits into a single tagged word so the CAS is
// one machine instruction. Go's garbage collector cannot tolerate tagged
// pointers, so this port keeps the next pointer and the status bits in
// separate atomic fields (atomic.Pointer[Waiter], atomic.Uint32). The
// externally observable semantics — ordering, no-lost-wake, ISR safety
// (spec.md §3/§4.D/§8) — are unchanged; only the bit-packing trick is
// dropped. See DESIGN.md.
package twq

import (
	"sync/atomic"
	"time"

	"github.com/weos-rt/weos/rtmetrics"
	"github.com/weos-rt/weos/rtos"
)

const (
	stateWoken    uint32 = 1 << 0
	stateUnlinked uint32 = 1 << 1
)

// Waiter is one blocked caller's node on a Queue (spec.md §3 "Waiter node
// W"). It is meant to be stack-allocated in the blocking call's frame: its
// lifetime is the blocking call's lifetime, exactly as the original
// requires, even though Go's escape analysis may in practice place it on
// the heap — nothing here depends on its address being literal caller
// stack memory, only on one Waiter existing per blocking call.
type Waiter struct {
	queue    *Queue
	next     atomic.Pointer[Waiter]
	state    atomic.Uint32
	priority int
	sema     chan struct{}
}

// Priority returns the priority captured at enrollment (spec.md §9
// "Priority capture at enroll" — no priority inheritance, captured once).
func (w *Waiter) Priority() int { return w.priority }

func (w *Waiter) post() {
	select {
	case w.sema <- struct{}{}:
	default:
	}
}

// Wait blocks until notified, with no deadline.
func (w *Waiter) Wait() { <-w.sema }

// WaitFor blocks until notified or d elapses, returning true iff notified
// before the deadline (spec.md §4.D "wait_for/wait_until"). On a false
// return the caller must call Unlink and, if that returns true, treat the
// wait as successful — a racing notification arrived between the timeout
// and the unlink (spec.md §4.D, §8 property 2). WaitFor does not call
// Unlink itself so callers can distinguish the two outcomes if they need to
// (rtsync and future both just do it inline).
func (w *Waiter) WaitFor(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-w.sema:
		return true
	case <-timer.C:
		return false
	}
}

// WaitUntil is WaitFor expressed against an absolute deadline.
func (w *Waiter) WaitUntil(deadline time.Time) bool {
	return w.WaitFor(time.Until(deadline))
}

// Unlink implements spec.md §4.D's unlink(W): if the waiter is already
// unlinked, report whether it was woken (the caller lost a race with a
// notifier, but the wake still counts); otherwise splice it out via CAS and
// mark it unlinked.
func (w *Waiter) Unlink() bool {
	var woken bool
	op := func() { woken = w.unlinkLocked() }
	if w.queue.provider.InInterrupt() {
		op()
	} else {
		w.queue.provider.SVCCall(op)
	}
	return woken
}

func (w *Waiter) unlinkLocked() bool {
	for {
		st := w.state.Load()
		if st&stateUnlinked != 0 {
			return st&stateWoken != 0
		}
		prev, cur := w.queue.findPredecessor(w)
		if cur != w {
			// Already spliced out by a concurrent notify; loop to
			// observe the state it must have set before unlinking.
			continue
		}
		next := w.next.Load()
		var ok bool
		if prev == nil {
			ok = w.queue.head.CompareAndSwap(w, next)
		} else {
			ok = prev.next.CompareAndSwap(w, next)
		}
		if !ok {
			continue
		}
		orState(&w.state, stateUnlinked)
		w.queue.depth.Add(-1)
		w.queue.observeDepth()
		return st&stateWoken != 0
	}
}

func orState(w *atomic.Uint32, mask uint32) {
	for {
		old := w.Load()
		if w.CompareAndSwap(old, old|mask) {
			return
		}
	}
}

// Queue is a thread-wait queue: a single atomic head pointer to the
// highest-priority waiter, ordered by descending priority with FIFO within
// a priority (spec.md §3 "Thread-wait queue TWQ", §4.D "Ordering").
type Queue struct {
	head     atomic.Pointer[Waiter]
	provider rtos.Provider

	depth    atomic.Int64
	observer rtmetrics.Observer // optional, see SetDepthObserver
}

// New returns an empty Queue backed by provider, whose InInterrupt/SVCCall
// decide whether link/unlink/notify run directly or through the simulated
// SVC indirection (spec.md §4.A, §4.D "Interrupt-context rule").
func New(provider rtos.Provider) *Queue {
	return &Queue{provider: provider}
}

// SetDepthObserver attaches o as the sink for this queue's waiter count
// (SPEC_FULL.md §2.3). Not safe to call concurrently with Enroll/Unlink/
// NotifyOne/NotifyAll; set it once right after New.
func (q *Queue) SetDepthObserver(o rtmetrics.Observer) { q.observer = o }

func (q *Queue) observeDepth() {
	if q.observer != nil {
		q.observer.Set(float64(q.depth.Load()))
	}
}

// Enroll allocates a Waiter at priority and links it into the queue,
// implementing the scoped waiter token's construction (spec.md §4.D
// "Scoped waiter token"). Callers must eventually call Waiter.Unlink
// (typically via defer), matching the token's destructor.
func (q *Queue) Enroll(priority int) *Waiter {
	w := &Waiter{queue: q, priority: priority, sema: make(chan struct{}, 1)}
	op := func() { q.link(w) }
	if q.provider.InInterrupt() {
		op()
	} else {
		q.provider.SVCCall(op)
	}
	return w
}

// link implements spec.md §4.D's three linking rules: priority order with
// FIFO-within-priority, CAS publication on the predecessor (or head), and
// restart-on-WOKEN-predecessor.
func (q *Queue) link(w *Waiter) {
	for {
		var prev *Waiter
		cur := q.head.Load()
		restarted := false
		for cur != nil {
			if cur.state.Load()&stateWoken != 0 {
				restarted = true
				break
			}
			if cur.priority < w.priority {
				break
			}
			prev = cur
			cur = cur.next.Load()
		}
		if restarted {
			continue
		}
		w.next.Store(cur)
		if prev == nil {
			if q.head.CompareAndSwap(cur, w) {
				q.depth.Add(1)
				q.observeDepth()
				return
			}
		} else if prev.next.CompareAndSwap(cur, w) {
			q.depth.Add(1)
			q.observeDepth()
			return
		}
	}
}

// findPredecessor walks the list looking for target, returning its
// predecessor (nil if target is first) and the node actually found at that
// position (which may not be target, if it was concurrently unlinked).
func (q *Queue) findPredecessor(target *Waiter) (prev, found *Waiter) {
	cur := q.head.Load()
	for cur != nil && cur != target {
		prev = cur
		cur = cur.next.Load()
	}
	return prev, cur
}

// NotifyOne wakes the highest-priority waiter, if any (spec.md §4.D
// "notify_one()"). Safe to call from ISR context (spec.md §5 "ISR
// safety").
func (q *Queue) NotifyOne() {
	op := q.notifyOneLocked
	if q.provider.InInterrupt() {
		op()
	} else {
		q.provider.SVCCall(op)
	}
}

func (q *Queue) notifyOneLocked() {
	for {
		head := q.head.Load()
		if head == nil {
			return
		}
		next := head.next.Load()
		if q.head.CompareAndSwap(head, next) {
			orState(&head.state, stateWoken|stateUnlinked)
			head.post()
			q.depth.Add(-1)
			q.observeDepth()
			return
		}
	}
}

// NotifyAll wakes every enrolled waiter (spec.md §4.D "notify_all()").
// Safe to call from ISR context.
func (q *Queue) NotifyAll() {
	op := q.notifyAllLocked
	if q.provider.InInterrupt() {
		op()
	} else {
		q.provider.SVCCall(op)
	}
}

func (q *Queue) notifyAllLocked() {
	cur := q.head.Swap(nil)
	var drained int64
	for cur != nil {
		next := cur.next.Load()
		orState(&cur.state, stateWoken|stateUnlinked)
		cur.post()
		drained++
		cur = next
	}
	if drained != 0 {
		q.depth.Add(-drained)
		q.observeDepth()
	}
}

// Empty reports whether the queue currently has no enrolled waiters.
func (q *Queue) Empty() bool { return q.head.Load() == nil }

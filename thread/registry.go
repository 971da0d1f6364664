package thread

import (
	"sync/atomic"

	"github.com/weos-rt/weos/rtmetrics"
	"github.com/weos-rt/weos/rtos"
)

// registry is the process-wide, intrusive, singly-linked list of live
// thread states (spec.md §4.E "Enumeration"), the same CAS-linked-list
// shape twq.Queue uses for its waiter list, dispatched through
// SVCCall/InInterrupt the same way (spec.md §4.E "for_each_thread executes
// in a privileged context").
type registry struct {
	head     atomic.Pointer[State]
	count    atomic.Int64
	observer rtmetrics.Observer
}

var liveThreads registry

// SetLiveThreadObserver attaches o as the sink for the process-wide live
// thread count (SPEC_FULL.md §2.3). There is one registry per process, so
// this is a package-level setter rather than a per-Handle one.
func SetLiveThreadObserver(o rtmetrics.Observer) { liveThreads.observer = o }

func (r *registry) observeCount() {
	if r.observer != nil {
		r.observer.Set(float64(r.count.Load()))
	}
}

func dispatch(provider rtos.Provider, op func()) {
	if provider.InInterrupt() {
		op()
	} else {
		provider.SVCCall(op)
	}
}

func (r *registry) insert(provider rtos.Provider, s *State) {
	dispatch(provider, func() {
		for {
			old := r.head.Load()
			s.next.Store(old)
			if r.head.CompareAndSwap(old, s) {
				r.count.Add(1)
				r.observeCount()
				return
			}
		}
	})
}

func (r *registry) remove(provider rtos.Provider, s *State) {
	dispatch(provider, func() {
		var prev *State
		cur := r.head.Load()
		for cur != nil && cur != s {
			prev = cur
			cur = cur.next.Load()
		}
		if cur != s {
			return
		}
		next := s.next.Load()
		if prev == nil {
			r.head.CompareAndSwap(s, next)
		} else {
			prev.next.CompareAndSwap(s, next)
		}
		r.count.Add(-1)
		r.observeCount()
	})
}

// forEach calls f for every live thread, stopping early if f returns false,
// matching spec.md §4.E "for_each_thread(f)".
func (r *registry) forEach(provider rtos.Provider, f func(*State) bool) {
	dispatch(provider, func() {
		for cur := r.head.Load(); cur != nil; cur = cur.next.Load() {
			if !f(cur) {
				return
			}
		}
	})
}

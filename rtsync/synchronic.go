package rtsync

import (
	"time"

	"github.com/weos-rt/weos/atomics"
	"github.com/weos-rt/weos/rtos"
	"github.com/weos-rt/weos/twq"
)

// Synchronic is the generic replacement for the original's
// synchronic<T> class template (spec.md §4.F "synchronic<T>", §9
// "Templates over the underlying compiler's type system" — Go generics are
// the direct, license-free substitute the design notes call for). It owns
// an atomic T and a twq.Queue: Notify publishes a new value and wakes
// waiters; Expect/ExpectUpdate block until the value satisfies a
// predicate, completing the *For/*Until timed variants the distillation's
// _synchronic.hpp declares but leaves unimplemented (see
// original_source/src/_cmsis_rtos/_synchronic.hpp).
type Synchronic[T atomics.Word] struct {
	value    *atomics.Value[T]
	queue    *twq.Queue
	provider rtos.Provider
}

// NewSynchronic creates a Synchronic initialized to initial.
func NewSynchronic[T atomics.Word](provider rtos.Provider, initial T) *Synchronic[T] {
	return &Synchronic[T]{
		value:    atomics.NewValue(initial),
		queue:    twq.New(provider),
		provider: provider,
	}
}

// Load reads the current value.
func (s *Synchronic[T]) Load(order atomics.MemoryOrder) T { return s.value.Load(order) }

// Notify stores v then wakes one or all waiters (spec.md §4.F "notify(obj,
// v, order, hint)"). Safe to call from ISR context.
func (s *Synchronic[T]) Notify(v T, order atomics.MemoryOrder, all bool) {
	s.value.Store(v, order)
	if all {
		s.queue.NotifyAll()
	} else {
		s.queue.NotifyOne()
	}
}

// Expect blocks until the value equals desired.
func (s *Synchronic[T]) Expect(desired T, order atomics.MemoryOrder) {
	s.ExpectPredicate(func(v T) bool { return v == desired }, order)
}

// ExpectUpdate blocks until the value no longer equals current (spec.md
// §4.F "expect_update(obj, current, ...) is the dual").
func (s *Synchronic[T]) ExpectUpdate(current T, order atomics.MemoryOrder) {
	s.ExpectPredicate(func(v T) bool { return v != current }, order)
}

// ExpectPredicate blocks until pred(value) is true, matching spec.md
// §4.F's callable predicate overload.
func (s *Synchronic[T]) ExpectPredicate(pred func(T) bool, order atomics.MemoryOrder) {
	for {
		if pred(s.value.Load(order)) {
			return
		}
		w := s.queue.Enroll(currentPriority(s.provider))
		if pred(s.value.Load(order)) {
			w.Unlink()
			return
		}
		w.Wait()
	}
}

// ExpectFor is Expect bounded by d.
func (s *Synchronic[T]) ExpectFor(desired T, order atomics.MemoryOrder, d time.Duration) bool {
	return s.ExpectPredicateFor(func(v T) bool { return v == desired }, order, d)
}

// ExpectUpdateFor is ExpectUpdate bounded by d.
func (s *Synchronic[T]) ExpectUpdateFor(current T, order atomics.MemoryOrder, d time.Duration) bool {
	return s.ExpectPredicateFor(func(v T) bool { return v != current }, order, d)
}

// ExpectPredicateFor blocks until pred(value) is true or d elapses.
func (s *Synchronic[T]) ExpectPredicateFor(pred func(T) bool, order atomics.MemoryOrder, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		if pred(s.value.Load(order)) {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return pred(s.value.Load(order))
		}
		w := s.queue.Enroll(currentPriority(s.provider))
		if pred(s.value.Load(order)) {
			w.Unlink()
			return true
		}
		ok := w.WaitFor(remaining)
		if !ok {
			ok = w.Unlink()
		}
		if ok && pred(s.value.Load(order)) {
			return true
		}
	}
}

// ExpectUntil is ExpectFor against an absolute deadline.
func (s *Synchronic[T]) ExpectUntil(desired T, order atomics.MemoryOrder, deadline time.Time) bool {
	return s.ExpectFor(desired, order, time.Until(deadline))
}

// ExpectUpdateUntil is ExpectUpdateFor against an absolute deadline.
func (s *Synchronic[T]) ExpectUpdateUntil(current T, order atomics.MemoryOrder, deadline time.Time) bool {
	return s.ExpectUpdateFor(current, order, time.Until(deadline))
}

// ExpectPredicateUntil is ExpectPredicateFor against an absolute deadline,
// completing the *Until timed variants of the original's
// _synchronic.hpp the distillation left unimplemented (see
// original_source/src/_cmsis_rtos/_synchronic.hpp).
func (s *Synchronic[T]) ExpectPredicateUntil(pred func(T) bool, order atomics.MemoryOrder, deadline time.Time) bool {
	return s.ExpectPredicateFor(pred, order, time.Until(deadline))
}

// Package future implements the shared-state engine behind promise/future/
// async (spec.md §2 component G, §3 "Shared future state S", §4.G):
// reference counted, flag-word gated (ATTACHED/BEING_SATISFIED/
// VALUE_CONSTRUCTED/READY), one-shot twq-backed notification, with
// exception propagation through the same path a value would take. Grounded
// in original_source/src/_cmsis_rtos/_future.hpp for the exact flag
// semantics and error taxonomy the distilled spec only summarizes.
package future

import (
	"sync/atomic"
	"time"

	"github.com/weos-rt/weos/rterrors"
	"github.com/weos-rt/weos/rtos"
	"github.com/weos-rt/weos/twq"
)

type flag uint32

const (
	flagAttached         flag = 1 << 0
	flagBeingSatisfied   flag = 1 << 1
	flagValueConstructed flag = 1 << 2
	flagReady            flag = 1 << 3
)

// SharedState is the reference-counted object common to a promise/async
// task (producer) and a future (consumer), spec.md §3 "Shared future state
// S". It is created with one reference held by the Promise; Promise.Future
// adds a second for the returned Future. Whichever side's release brings
// the count to zero is, in the original, responsible for destroying the
// in-place-constructed object; in this port that release is a bookkeeping
// no-op (Go's GC reclaims SharedState once nothing references it), kept so
// call sites read the same as the original and so a future refcount-based
// invariant check could be added without restructuring callers.
type SharedState[T any] struct {
	refcount atomic.Int32
	flags    atomic.Uint32
	value    T
	err      error
	queue    *twq.Queue
	provider rtos.Provider
}

func newSharedState[T any](provider rtos.Provider) *SharedState[T] {
	s := &SharedState[T]{queue: twq.New(provider), provider: provider}
	s.refcount.Store(1)
	return s
}

func (s *SharedState[T]) addRef() { s.refcount.Add(1) }

func (s *SharedState[T]) release() { s.refcount.Add(-1) }

func orFlags(f *atomic.Uint32, mask flag) {
	for {
		old := f.Load()
		if f.CompareAndSwap(old, old|uint32(mask)) {
			return
		}
	}
}

// attachFuture sets flagAttached, failing if it was already set (spec.md
// §3 "FUTURE_ATTACHED is set at most once").
func (s *SharedState[T]) attachFuture() error {
	for {
		old := s.flags.Load()
		if flag(old)&flagAttached != 0 {
			return rterrors.ErrFutureAlreadyRetrieved
		}
		if s.flags.CompareAndSwap(old, old|uint32(flagAttached)) {
			return nil
		}
	}
}

func (s *SharedState[T]) beginSatisfy() error {
	for {
		old := s.flags.Load()
		if flag(old)&flagBeingSatisfied != 0 {
			return rterrors.ErrPromiseAlreadySatisfied
		}
		if s.flags.CompareAndSwap(old, old|uint32(flagBeingSatisfied)) {
			return nil
		}
	}
}

// SetValue implements spec.md §4.G "set_value(v)".
func (s *SharedState[T]) SetValue(v T) error {
	if err := s.beginSatisfy(); err != nil {
		return err
	}
	s.value = v
	orFlags(&s.flags, flagValueConstructed|flagReady)
	s.queue.NotifyAll()
	return nil
}

// SetException implements spec.md §4.G "set_exception(e)".
func (s *SharedState[T]) SetException(err error) error {
	if berr := s.beginSatisfy(); berr != nil {
		return berr
	}
	s.err = err
	orFlags(&s.flags, flagReady)
	s.queue.NotifyAll()
	return nil
}

func (s *SharedState[T]) isReady() bool { return flag(s.flags.Load())&flagReady != 0 }

func (s *SharedState[T]) priority() int {
	p, err := s.provider.TaskPriority(s.provider.TaskCurrent())
	if err != nil {
		return 0
	}
	return int(p)
}

// Wait blocks until the state is ready, with no deadline.
func (s *SharedState[T]) Wait() {
	if s.isReady() {
		return
	}
	w := s.queue.Enroll(s.priority())
	if s.isReady() {
		w.Unlink()
		return
	}
	w.Wait()
}

// WaitFor blocks until ready or d elapses, returning true iff ready before
// the deadline (reconciling a racing SetValue/SetException the same way
// twq.Waiter.WaitFor's callers always must, spec.md §4.D/§8 property 2).
func (s *SharedState[T]) WaitFor(d time.Duration) bool {
	if s.isReady() {
		return true
	}
	w := s.queue.Enroll(s.priority())
	if s.isReady() {
		w.Unlink()
		return true
	}
	ok := w.WaitFor(d)
	if !ok {
		ok = w.Unlink()
	}
	return ok
}

// GetValue implements spec.md §4.G "get_value()": wait until ready, then
// either rethrow the stored exception or return the value.
func (s *SharedState[T]) GetValue() (T, error) {
	s.Wait()
	if s.err != nil {
		var zero T
		return zero, s.err
	}
	return s.value, nil
}

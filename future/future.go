package future

import (
	"fmt"
	"time"

	"github.com/weos-rt/weos/rterrors"
	"github.com/weos-rt/weos/rtos"
)

// Future holds one reference to a SharedState[T], the consumer side of
// spec.md §4.G. Get moves the value (or rethrows the stored error) out and
// releases the state; calling it twice, or on a zero Future, reports
// rterrors.ErrNoState.
type Future[T any] struct {
	state *SharedState[T]
}

// Valid reports whether Get/Wait may still be called.
func (f *Future[T]) Valid() bool { return f != nil && f.state != nil }

// Wait blocks until the associated promise is satisfied, with no deadline.
func (f *Future[T]) Wait() error {
	if !f.Valid() {
		return rterrors.ErrNoState
	}
	f.state.Wait()
	return nil
}

// WaitFor is Wait bounded by d.
func (f *Future[T]) WaitFor(d time.Duration) (bool, error) {
	if !f.Valid() {
		return false, rterrors.ErrNoState
	}
	return f.state.WaitFor(d), nil
}

// Get implements spec.md §4.G "future": blocks until ready, then returns
// the value or the stored exception, releasing the state either way.
func (f *Future[T]) Get() (T, error) {
	if !f.Valid() {
		var zero T
		return zero, rterrors.ErrNoState
	}
	v, err := f.state.GetValue()
	s := f.state
	f.state = nil
	s.release()
	return v, err
}

// Async implements spec.md §4.G "async(policy, attrs, f, args...)": it
// starts a detached worker that calls f and publishes its result or panic
// to a freshly created promise, returning the attached future. The
// "policy"/"attrs" stack-placement arguments of the original are replaced
// by the plain goroutine launch this port uses throughout (spec.md §9
// "Stack placement": neither Async nor thread.New places shared state in
// a caller-supplied stack; both allocate it on the Go heap, and a
// goroutine's stack is managed by the runtime).
func Async[T any](provider rtos.Provider, f func() (T, error)) (*Future[T], error) {
	p := NewPromise[T](provider)
	fut, err := p.Future()
	if err != nil {
		p.Close()
		return nil, err
	}
	go func() {
		defer p.Close()
		v, ferr := runCatchingPanic(f)
		if ferr != nil {
			p.SetException(ferr)
			return
		}
		p.SetValue(v)
	}()
	return fut, nil
}

// runCatchingPanic invokes f, converting any panic into an error — the
// Go-native stand-in for spec.md §4.E's "exception hook" at a task's top
// level (spec.md §7 "the thread-level hook... catches top-level escapes").
func runCatchingPanic[T any](f func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("future: panic in async task: %v", r)
		}
	}()
	return f()
}

// MakeExceptionalFuture returns an already-failed Future holding err,
// reinstated from original_source/src/_cmsis_rtos/_future.hpp (present in
// the original, dropped by the distillation) as a small, obviously useful
// completion of the promise/future vocabulary — tests and error paths
// often need a future that is already done.
func MakeExceptionalFuture[T any](provider rtos.Provider, err error) (*Future[T], error) {
	p := NewPromise[T](provider)
	fut, ferr := p.Future()
	if ferr != nil {
		p.Close()
		return nil, ferr
	}
	if serr := p.SetException(err); serr != nil {
		p.Close()
		return nil, serr
	}
	return fut, nil
}

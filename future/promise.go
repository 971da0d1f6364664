package future

import (
	"github.com/weos-rt/weos/rterrors"
	"github.com/weos-rt/weos/rtos"
)

// Promise holds one reference to a SharedState[T] and is the producer side
// of spec.md §4.G's "promise". Go has no destructors, so the
// broken-promise check the original runs in ~promise() is run explicitly
// by Close — callers must call Close (typically via defer) when done with
// a Promise, exactly as they would release a C++ promise by letting it go
// out of scope.
type Promise[T any] struct {
	state     *SharedState[T]
	retrieved bool
	satisfied bool
	closed    bool
}

// NewPromise creates an unsatisfied Promise backed by provider.
func NewPromise[T any](provider rtos.Provider) *Promise[T] {
	return &Promise[T]{state: newSharedState[T](provider)}
}

// Future returns the one Future attached to this promise. A second call
// fails with rterrors.ErrFutureAlreadyRetrieved (spec.md §3
// "FUTURE_ATTACHED is set at most once").
func (p *Promise[T]) Future() (*Future[T], error) {
	if err := p.state.attachFuture(); err != nil {
		return nil, err
	}
	p.retrieved = true
	p.state.addRef()
	return &Future[T]{state: p.state}, nil
}

// SetValue implements spec.md §4.G "set_value(v)".
func (p *Promise[T]) SetValue(v T) error {
	if err := p.state.SetValue(v); err != nil {
		return err
	}
	p.satisfied = true
	return nil
}

// SetException implements spec.md §4.G "set_exception(e)".
func (p *Promise[T]) SetException(err error) error {
	if serr := p.state.SetException(err); serr != nil {
		return serr
	}
	p.satisfied = true
	return nil
}

// Close releases the promise's reference to the shared state. If the
// promise was never satisfied and a future is attached, it publishes
// rterrors.ErrBrokenPromise so the future's Get/Wait observes it (spec.md
// §4.G "promise", §8 property 7).
func (p *Promise[T]) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if !p.satisfied && flag(p.state.flags.Load())&flagAttached != 0 {
		p.state.SetException(rterrors.ErrBrokenPromise)
	}
	p.state.release()
}

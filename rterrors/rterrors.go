// Package rterrors collects the sentinel errors shared across thread,
// rtsync, and future: the error taxonomy a POSIX/C++-threading-derived
// library normally raises as named exceptions. The teacher's own packages
// lean on plain fmt.Errorf at call sites rather than a shared error-code
// package, and no pack example carries a verror-style taxonomy package, so
// this is a deliberate stdlib-only package: sentinel values via errors.New,
// compared with errors.Is, which is the standard Go idiom for a fixed,
// known error set (see DESIGN.md).
package rterrors

import "errors"

var (
	// ErrResourceDeadlockWouldOccur is raised by a non-recursive mutex's
	// Lock when the calling goroutine already holds it.
	ErrResourceDeadlockWouldOccur = errors.New("rterrors: resource deadlock would occur")

	// ErrOperationNotPermitted is raised by Join/Detach on a handle that is
	// not joinable.
	ErrOperationNotPermitted = errors.New("rterrors: operation not permitted")

	// ErrInvalidArgument is raised when a requested stack size is out of
	// the allowed range.
	ErrInvalidArgument = errors.New("rterrors: invalid argument")

	// ErrNotEnoughMemory is raised when no stack was supplied and stack
	// allocation is disabled, or the stack size to allocate is zero. A
	// stack outside the allowed size range is ErrInvalidArgument instead.
	ErrNotEnoughMemory = errors.New("rterrors: not enough memory")

	// ErrNoChildProcess is raised when the underlying rtos.Provider refuses
	// to create a task.
	ErrNoChildProcess = errors.New("rterrors: no child process")

	// ErrBrokenPromise is raised by Future.Get/Wait when the promise was
	// destroyed without a value or exception while a future was attached.
	ErrBrokenPromise = errors.New("rterrors: broken promise")

	// ErrFutureAlreadyRetrieved is raised by Promise.Future when it has
	// already been called once for this promise.
	ErrFutureAlreadyRetrieved = errors.New("rterrors: future already retrieved")

	// ErrPromiseAlreadySatisfied is raised by SetValue/SetException when
	// the shared state has already been satisfied.
	ErrPromiseAlreadySatisfied = errors.New("rterrors: promise already satisfied")

	// ErrNoState is raised by operations on a Promise/Future that no
	// longer refers to a shared state (moved-from equivalent).
	ErrNoState = errors.New("rterrors: no associated state")
)

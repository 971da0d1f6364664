// Package rtos defines the thin boundary between this module and the
// underlying real-time operating system: the external collaborator spec.md
// §1/§6 says the core only ever reaches through an interface. Every other
// package in this module (twq, thread, rtsync, signal, clock) is written
// against rtos.Provider, never against a concrete backend, so the same code
// runs against the software simulation in rtos/simrtos or, eventually,
// against a cgo shim over a real CMSIS-RTOS port.
package rtos

import "time"

// TaskID identifies one RTOS task. The zero value never identifies a live
// task.
type TaskID uint64

// Priority is an RTOS scheduling priority; higher values run first.
type Priority int32

// MutexID and SemaphoreID are opaque handles to RTOS-owned primitives,
// analogous to the original's osMutexId/osSemaphoreId.
type MutexID uintptr
type SemaphoreID uintptr

// Forever is the timeout sentinel meaning "wait with no deadline",
// mirroring CMSIS-RTOS's osWaitForever.
const Forever uint32 = 0xFFFFFFFF

// MaxChunkTicks is the largest timeout a single raw wait call accepts
// before the caller must loop (spec.md §4.F, §5 "Cancellation & timeouts").
const MaxChunkTicks uint32 = 65534

// WaitResult reports the outcome of a bounded wait against a mutex,
// semaphore, or signal set.
type WaitResult int

const (
	// WaitOK means the resource was acquired / the condition was met.
	WaitOK WaitResult = iota
	// WaitTimeout means the deadline elapsed first.
	WaitTimeout
)

// Provider is the set of primitive RTOS services spec.md §6 lists as the
// only required host-provided interface. Implementations must be safe for
// concurrent use by multiple tasks and, where noted, by the simulated ISR
// context.
type Provider interface {
	// TaskCreate starts entry(arg) running over stackBase with the given
	// priority and returns its TaskID. Returns rterrors.ErrNoChildProcess
	// if the provider refuses (spec.md §7).
	TaskCreate(entry func(arg any), stackBase []byte, priority Priority, arg any) (TaskID, error)
	TaskTerminate(id TaskID) error
	TaskYield()
	TaskCurrent() TaskID
	TaskPriority(id TaskID) (Priority, error)
	TaskDelay(ticks uint32)

	MutexCreate() (MutexID, error)
	MutexDestroy(id MutexID) error
	MutexWait(id MutexID, timeoutTicks uint32) WaitResult
	MutexRelease(id MutexID) error

	SemaphoreCreate(initial int32) (SemaphoreID, error)
	SemaphoreDestroy(id SemaphoreID) error
	SemaphoreWait(id SemaphoreID, timeoutTicks uint32) WaitResult
	SemaphoreRelease(id SemaphoreID) error
	// SemaphoreValue reads the raw token count (spec.md §4.F "value()").
	SemaphoreValue(id SemaphoreID) int32

	// SignalSet ORs mask into task's signal flags and returns the flags
	// observed before the set.
	SignalSet(task TaskID, mask uint16) (previous uint16, err error)
	// SignalClear ANDs task's signal flags with ^mask and returns the
	// flags observed before the clear.
	SignalClear(task TaskID, mask uint16) (previous uint16, err error)
	// SignalWait blocks the calling task until at least one bit in mask is
	// set, clearing only the observed bits, and returns them. Returns
	// WaitTimeout if timeoutTicks elapses first.
	SignalWait(mask uint16, timeoutTicks uint32) (observed uint16, result WaitResult)

	// SystickValue is the current SysTick countdown register.
	SystickValue() uint32
	// SystickOverflowPending reports whether SysTick has an unserviced
	// wrap pending.
	SystickOverflowPending() bool
	// CoarseTick is the RTOS's own 32-bit tick counter.
	CoarseTick() uint32
	// SystickReload is the configured reload value (ticks per coarse
	// tick, minus one); clock uses it to scale the fused count.
	SystickReload() uint32
	// TickPeriod is the wall-clock duration of one coarse tick, used by
	// rtsync's timed primitives to convert a time.Duration deadline into
	// the ≤65534-tick chunks the raw waits accept (spec.md §4.F, §5).
	TickPeriod() time.Duration

	// InInterrupt reports whether the calling goroutine is running on
	// behalf of the simulated ISR context.
	InInterrupt() bool
	// SVCCall runs fn with preemption excluded, as if dispatched through a
	// supervisor call. Must not be invoked from ISR context; callers
	// check InInterrupt() first and call fn directly instead (spec.md
	// §4.A contract).
	SVCCall(fn func())

	// Now is a convenience wall-clock reference used only for test
	// timeouts in the simulation; it has no equivalent on real firmware
	// and callers in the core never depend on it directly.
	Now() time.Time
}

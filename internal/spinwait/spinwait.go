// Package spinwait provides a spin-then-yield backoff for CAS retry loops.
// No other package in this module imports it: twq's and the thread
// registry's CAS loops retry immediately, and atomics.Big uses a plain
// sync.Mutex. Adapted from nsync's unexported spinDelay/spinTestAndSet
// (common.go): same two-phase idea (busy-loop while contention is cheap to
// ride out, then runtime.Gosched once it isn't), rewritten against the
// typed atomics in sync/atomic (atomic.Uint32) instead of the pre-generics
// *uint32 + atomic.LoadUint32 pairing nsync used.
//
// The backoff curve itself is not a straight port: nsync lets the busy
// loop double unboundedly for 7 rounds (up to 1<<6 iterations) before
// yielding. This port caps the loop at spinCeiling iterations and extends
// the spinning phase to maxSpinAttempts rounds instead, so a goroutine
// pinned to one of many OS threads doesn't spend an ever-growing slice of
// its quantum busy-looping before the scheduler gets a chance to run
// someone else — a real concern here since, unlike nsync's single-core
// Cortex-M target, this runs over however many cores the host gives Go's
// runtime.
package spinwait

import (
	"runtime"
	"sync/atomic"
)

// maxSpinAttempts rounds spend busy-looping before Delay starts yielding
// the goroutine instead.
const maxSpinAttempts = 10

// spinCeiling bounds how many busy iterations a single round runs, no
// matter how many attempts have already elapsed.
const spinCeiling = 1 << 5

// Delay backs off after a failed CAS attempt. Call it in a loop:
//
//	var attempts uint
//	for !tryOnce() {
//		attempts = spinwait.Delay(attempts)
//	}
//
// The first few attempts busy-spin (cheap on a single core, and the whole
// point on a Cortex-M target); once that stops paying off it yields the
// goroutine instead of burning the host CPU.
func Delay(attempts uint) uint {
	if attempts < maxSpinAttempts {
		n := uint(1) << attempts
		if n > spinCeiling {
			n = spinCeiling
		}
		for i := uint(0); i != n; i++ {
		}
		attempts++
	} else {
		runtime.Gosched()
	}
	return attempts
}

// TestAndSet spins until w&test == 0, then atomically performs w |= set and
// returns the previous value. Used by the condition-variable/latch style
// "only one goroutine may be in the critical section defined by test" gate
// nsync's cv.go builds on top of spinTestAndSet.
func TestAndSet(w *atomic.Uint32, test, set uint32) uint32 {
	var attempts uint
	old := w.Load()
	for old&test != 0 || !w.CompareAndSwap(old, old|set) {
		attempts = Delay(attempts)
		old = w.Load()
	}
	return old
}

// Package signal implements spec.md §4.H: a per-thread flag set of up to
// config.Config.MaxSignals bits, set/cleared/waited-on through
// rtos.Provider's signal service. A Handle is the signal-facing view of one
// thread.Handle; thread constructs one on demand for each signal call,
// using the configured MaxSignals width (spec.md §6).
package signal

import (
	"time"

	"github.com/weos-rt/weos/rtos"
)

// Handle targets the per-thread signal flags of one task.
type Handle struct {
	provider   rtos.Provider
	task       rtos.TaskID
	maxSignals uint8
}

// New returns a Handle for task, masking every operation to the low
// maxSignals bits (spec.md §6 "MAX_SIGNALS (1...16)").
func New(provider rtos.Provider, task rtos.TaskID, maxSignals uint8) *Handle {
	return &Handle{provider: provider, task: task, maxSignals: maxSignals}
}

func (h *Handle) mask(m uint16) uint16 {
	if h.maxSignals >= 16 {
		return m
	}
	return m & (uint16(1)<<h.maxSignals - 1)
}

// SetSignals ORs mask into the target's flags, returning the flags
// observed beforehand.
func (h *Handle) SetSignals(mask uint16) (uint16, error) {
	return h.provider.SignalSet(h.task, h.mask(mask))
}

// ClearSignals ANDs mask's complement into the target's flags.
func (h *Handle) ClearSignals(mask uint16) (uint16, error) {
	return h.provider.SignalClear(h.task, h.mask(mask))
}

// WaitForAny blocks the calling task until at least one bit in mask is
// set, clearing only the observed bits, and returns them (spec.md §4.H
// "wait_for_any_signal").
func (h *Handle) WaitForAny(mask uint16) uint16 {
	observed, _ := h.provider.SignalWait(h.mask(mask), rtos.Forever)
	return observed
}

// TryWaitForAny never blocks.
func (h *Handle) TryWaitForAny(mask uint16) (uint16, bool) {
	observed, res := h.provider.SignalWait(h.mask(mask), 0)
	return observed, res == rtos.WaitOK
}

// TryWaitForAnyFor loops in ≤65534-tick chunks up to d.
func (h *Handle) TryWaitForAnyFor(mask uint16, d time.Duration) (uint16, bool) {
	deadline := time.Now().Add(d)
	tickPeriod := h.provider.TickPeriod()
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, false
		}
		ticks := chunkTicks(remaining, tickPeriod)
		if observed, res := h.provider.SignalWait(h.mask(mask), ticks); res == rtos.WaitOK {
			return observed, true
		}
	}
}

// TryWaitForAnyUntil is TryWaitForAnyFor against an absolute deadline.
func (h *Handle) TryWaitForAnyUntil(mask uint16, deadline time.Time) (uint16, bool) {
	return h.TryWaitForAnyFor(mask, time.Until(deadline))
}

// WaitForAll blocks until every bit in mask has been observed set,
// accumulating across multiple WaitForAny calls and clearing each bit
// exactly once as it is observed (spec.md §4.H "wait_for_all_signals").
func (h *Handle) WaitForAll(mask uint16) uint16 {
	mask = h.mask(mask)
	var have uint16
	for have&mask != mask {
		have |= h.WaitForAny(mask &^ have)
	}
	return have
}

// TryWaitForAllFor is WaitForAll bounded by d.
func (h *Handle) TryWaitForAllFor(mask uint16, d time.Duration) (uint16, bool) {
	mask = h.mask(mask)
	deadline := time.Now().Add(d)
	var have uint16
	for have&mask != mask {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return have, false
		}
		observed, ok := h.TryWaitForAnyFor(mask&^have, remaining)
		if !ok {
			return have, false
		}
		have |= observed
	}
	return have, true
}

// TryWaitForAllUntil is TryWaitForAllFor against an absolute deadline.
func (h *Handle) TryWaitForAllUntil(mask uint16, deadline time.Time) (uint16, bool) {
	return h.TryWaitForAllFor(mask, time.Until(deadline))
}

func chunkTicks(remaining time.Duration, tickPeriod time.Duration) uint32 {
	ticks := uint64(remaining / tickPeriod)
	if ticks == 0 {
		ticks = 1
	}
	if ticks > uint64(rtos.MaxChunkTicks) {
		ticks = uint64(rtos.MaxChunkTicks)
	}
	return uint32(ticks)
}

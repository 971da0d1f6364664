package rtsync

import (
	"time"

	"github.com/weos-rt/weos/rtos"
)

// Semaphore is a counting semaphore over an rtos.Provider semaphore
// (spec.md §4.F "semaphore"). Post is ISR-safe (spec.md §5).
type Semaphore struct {
	provider rtos.Provider
	id       rtos.SemaphoreID
}

// NewSemaphore creates a Semaphore with the given initial value.
func NewSemaphore(provider rtos.Provider, initial int32) (*Semaphore, error) {
	id, err := provider.SemaphoreCreate(initial)
	if err != nil {
		return nil, err
	}
	return &Semaphore{provider: provider, id: id}, nil
}

// Wait blocks with no deadline.
func (s *Semaphore) Wait() { s.provider.SemaphoreWait(s.id, rtos.Forever) }

// TryWait never blocks.
func (s *Semaphore) TryWait() bool { return s.provider.SemaphoreWait(s.id, 0) == rtos.WaitOK }

// TryWaitFor loops in ≤65534-tick chunks up to d, matching spec.md §4.F
// "try_wait_for(d)".
func (s *Semaphore) TryWaitFor(d time.Duration) bool {
	deadline := time.Now().Add(d)
	tickPeriod := s.provider.TickPeriod()
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		if s.provider.SemaphoreWait(s.id, chunkTicks(remaining, tickPeriod)) == rtos.WaitOK {
			return true
		}
	}
}

// Post increments the semaphore. Safe to call from ISR context.
func (s *Semaphore) Post() error { return s.provider.SemaphoreRelease(s.id) }

// Value reads the raw token count (spec.md §4.F "value()").
func (s *Semaphore) Value() int32 { return s.provider.SemaphoreValue(s.id) }

// Close destroys the underlying rtos.Provider semaphore.
func (s *Semaphore) Close() error { return s.provider.SemaphoreDestroy(s.id) }

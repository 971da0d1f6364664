// Package mq implements spec.md §4.I's bounded message queue: a
// small-value fast path for word-sized, trivially-copyable element types
// (no pool, no extra synchronization beyond the raw queue itself) and a
// large-value path backed by an element pool, a counting semaphore
// throttle, and an internal index queue, matching the original's "element
// pool of N slots, a counting semaphore initialized to N... and an
// internal pointer queue" (spec.md §4.I) with Go slice indices standing in
// for the original's raw pointers.
package mq

import (
	"reflect"
	"sync/atomic"
	"time"

	"github.com/weos-rt/weos/rtmetrics"
	"github.com/weos-rt/weos/rtos"
	"github.com/weos-rt/weos/rtsync"
)

const wordSize = 8

// isSmallTrivial approximates spec.md §4.I's "sizeof(T) <= word, alignment
// fits, and T is trivially copyable" dispatch rule in a language without
// C++ type traits: any T that is not itself a reference-like kind
// (pointer, interface, slice, map, channel, func, string — all of which
// either alias shared backing storage or cannot be bit-copied meaningfully)
// and whose representation fits in one machine word is treated as the Go
// analogue of "trivially copyable" (see SPEC_FULL.md §4.I).
func isSmallTrivial[T any]() bool {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil {
		return false
	}
	switch typ.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.String:
		return false
	}
	return typ.Size() <= wordSize
}

// Queue is a fixed-capacity FIFO of T, dispatching at construction time on
// isSmallTrivial[T]() (spec.md §4.I).
type Queue[T any] struct {
	small bool

	// small-value path.
	smallCh chan T

	// large-value path.
	slots    []T
	freeIdx  chan int
	readyIdx chan int
	sem      *rtsync.Semaphore

	occupancy atomic.Int64
	observer  rtmetrics.Observer
}

// SetOccupancyObserver attaches o as the sink for this queue's current
// element count (SPEC_FULL.md §2.3). Set it once right after New.
func (q *Queue[T]) SetOccupancyObserver(o rtmetrics.Observer) { q.observer = o }

func (q *Queue[T]) observeOccupancy(delta int64) {
	n := q.occupancy.Add(delta)
	if q.observer != nil {
		q.observer.Set(float64(n))
	}
}

// New creates a Queue of the given fixed capacity.
func New[T any](provider rtos.Provider, capacity int) (*Queue[T], error) {
	q := &Queue[T]{small: isSmallTrivial[T]()}
	if q.small {
		q.smallCh = make(chan T, capacity)
		return q, nil
	}
	sem, err := rtsync.NewSemaphore(provider, int32(capacity))
	if err != nil {
		return nil, err
	}
	q.sem = sem
	q.slots = make([]T, capacity)
	q.freeIdx = make(chan int, capacity)
	q.readyIdx = make(chan int, capacity)
	for i := 0; i < capacity; i++ {
		q.freeIdx <- i
	}
	return q, nil
}

// Send implements spec.md §4.I "send(v)": bit-copy on the small path, or
// wait-allocate-construct-enqueue on the large path.
func (q *Queue[T]) Send(v T) {
	if q.small {
		q.smallCh <- v
		q.observeOccupancy(1)
		return
	}
	q.sem.Wait()
	idx := <-q.freeIdx
	q.slots[idx] = v
	q.readyIdx <- idx
	q.observeOccupancy(1)
}

// TrySend never blocks.
func (q *Queue[T]) TrySend(v T) bool {
	if q.small {
		select {
		case q.smallCh <- v:
			q.observeOccupancy(1)
			return true
		default:
			return false
		}
	}
	if !q.sem.TryWait() {
		return false
	}
	idx := <-q.freeIdx
	q.slots[idx] = v
	q.readyIdx <- idx
	q.observeOccupancy(1)
	return true
}

// TrySendFor blocks up to d.
func (q *Queue[T]) TrySendFor(v T, d time.Duration) bool {
	if q.small {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case q.smallCh <- v:
			q.observeOccupancy(1)
			return true
		case <-timer.C:
			return false
		}
	}
	if !q.sem.TryWaitFor(d) {
		return false
	}
	idx := <-q.freeIdx
	q.slots[idx] = v
	q.readyIdx <- idx
	q.observeOccupancy(1)
	return true
}

// Receive implements spec.md §4.I "receive()": reverses Send on the small
// path, or dequeues-moves-destroys-returns-the-slot on the large path.
func (q *Queue[T]) Receive() T {
	if q.small {
		v := <-q.smallCh
		q.observeOccupancy(-1)
		return v
	}
	idx := <-q.readyIdx
	v := q.slots[idx]
	var zero T
	q.slots[idx] = zero
	q.freeIdx <- idx
	q.sem.Post()
	q.observeOccupancy(-1)
	return v
}

// TryReceive never blocks.
func (q *Queue[T]) TryReceive() (T, bool) {
	if q.small {
		select {
		case v := <-q.smallCh:
			q.observeOccupancy(-1)
			return v, true
		default:
			var zero T
			return zero, false
		}
	}
	select {
	case idx := <-q.readyIdx:
		v := q.slots[idx]
		var zero T
		q.slots[idx] = zero
		q.freeIdx <- idx
		q.sem.Post()
		q.observeOccupancy(-1)
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// TryReceiveFor blocks up to d.
func (q *Queue[T]) TryReceiveFor(d time.Duration) (T, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	if q.small {
		select {
		case v := <-q.smallCh:
			q.observeOccupancy(-1)
			return v, true
		case <-timer.C:
			var zero T
			return zero, false
		}
	}
	select {
	case idx := <-q.readyIdx:
		v := q.slots[idx]
		var zero T
		q.slots[idx] = zero
		q.freeIdx <- idx
		q.sem.Post()
		q.observeOccupancy(-1)
		return v, true
	case <-timer.C:
		var zero T
		return zero, false
	}
}

// IsSmallPath reports which dispatch path this Queue picked, mainly useful
// for tests asserting the dispatch rule.
func (q *Queue[T]) IsSmallPath() bool { return q.small }

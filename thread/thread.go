package thread

import (
	"runtime"
	"sync/atomic"

	"github.com/weos-rt/weos/config"
	"github.com/weos-rt/weos/rterrors"
	"github.com/weos-rt/weos/rtlog"
	"github.com/weos-rt/weos/rtos"
	"github.com/weos-rt/weos/rtsync"
	"github.com/weos-rt/weos/signal"
	"github.com/weos-rt/weos/taskid"
)

// ID identifies a thread for its lifetime, the Go equivalent of the
// original's std::thread::id / cmsis thread_id (spec.md §4.E supplement).
type ID = taskid.ID

// State is the data shared between a Handle and the running task (spec.md
// §4.E "SharedThreadState"): reference counted so whichever of the owning
// Handle (via Join/Detach) or the task's own entry wrapper drops the last
// reference is the one that tears it down.
type State struct {
	provider rtos.Provider

	refcount         atomic.Int32
	finished         *rtsync.Semaphore
	joinedOrDetached *rtsync.Semaphore

	next atomic.Pointer[State]

	id         ID
	taskID     rtos.TaskID
	maxSignals uint8
	attrs      Attributes
	entry      func()
	stack      []byte

	panicValue any
}

func (s *State) destroy() {
	liveThreads.remove(s.provider, s)
	s.finished.Close()
	s.joinedOrDetached.Close()
}

// Handle is a joinable or detached reference to a running thread (spec.md
// §4.E "thread"). The zero Handle is not usable; construct one with New.
type Handle struct {
	state *State
}

// New starts f running as a new task under provider, per attrs (spec.md
// §4.E "thread::thread(attrs, f)"). f must eventually return; it must not
// block forever on anything only a Join, Detach, or signal can release, or
// the task can never be reaped.
//
// f is expected to already close over whatever arguments it needs: Go
// closures are the direct equivalent of the original's decay-copied
// bound-argument tuple, without a second representation to maintain.
func New(provider rtos.Provider, cfg config.Config, attrs Attributes, f func()) (*Handle, error) {
	stack, _, err := acquireStack(cfg, attrs)
	if err != nil {
		return nil, err
	}
	watermarkFill(stack)

	finished, err := rtsync.NewSemaphore(provider, 0)
	if err != nil {
		return nil, err
	}
	joinedOrDetached, err := rtsync.NewSemaphore(provider, 0)
	if err != nil {
		finished.Close()
		return nil, err
	}
	id, err := taskid.Next()
	if err != nil {
		finished.Close()
		joinedOrDetached.Close()
		return nil, err
	}

	s := &State{
		provider:         provider,
		finished:         finished,
		joinedOrDetached: joinedOrDetached,
		id:               id,
		maxSignals:       cfg.MaxSignals,
		attrs:            attrs,
		entry:            f,
		stack:            stack,
	}
	s.refcount.Store(1)

	// The body waits for ready so that it never runs before the thread is in
	// the live-thread registry with its taskID set (CurrentID relies on both).
	ready := make(chan struct{})
	taskID, err := provider.TaskCreate(func(any) { <-ready; runEntry(cfg, s) }, stack, attrs.Priority, nil)
	if err != nil {
		finished.Close()
		joinedOrDetached.Close()
		return nil, rterrors.ErrNoChildProcess
	}
	s.taskID = taskID
	// The task cannot possibly reach its own decrement before this one
	// runs: it blocks on joinedOrDetached first, and nothing can post that
	// before New returns the Handle that owns it. So 1 -> 2 is safe without
	// a CAS (spec.md §4.E "thread::do_create").
	s.refcount.Store(2)
	liveThreads.insert(provider, s)
	close(ready)

	h := &Handle{state: s}
	runtime.SetFinalizer(h, finalizeHandle)
	return h, nil
}

// finalizeHandle mirrors spec.md §8 property 8: destroying (here,
// garbage-collecting) a still-joinable Handle is a fatal programming
// error, the Go analogue of the original calling std::terminate from
// thread::~thread.
func finalizeHandle(h *Handle) {
	if h.state != nil {
		rtlog.Default.Fatalf("thread: joinable thread %d garbage-collected without Join or Detach", h.state.id)
	}
}

// runEntry is the task entry wrapper (spec.md §4.E "entry wrapper"):
// invoke the body, catch a panic if configured, then block until the
// owning Handle calls Join or Detach, then run the refcounted teardown
// protocol the original's weos_threadInvoker implements.
func runEntry(cfg config.Config, s *State) {
	func() {
		defer func() {
			if r := recover(); r != nil {
				if cfg.ExceptionHookEnabled {
					s.panicValue = r
					rtlog.Default.Errorf("thread %d: unhandled panic: %v", s.id, r)
				} else {
					panic(r)
				}
			}
		}()
		s.entry()
	}()

	// Keep the task alive: someone might still set a signal on it, and the
	// owning Handle has not yet decided whether to Join or Detach.
	s.joinedOrDetached.Wait()

	if s.refcount.Add(-1) == 0 {
		// Detach already dropped its reference without reaching zero, so it
		// returned without waiting on finished; we are the second
		// decrement. Post finished anyway, then tear down: whichever side
		// hits zero owns destruction.
		s.finished.Post()
		s.destroy()
	} else {
		s.finished.Post()
	}
	s.provider.TaskTerminate(s.taskID)
}

// release implements the shared tail of Join and Detach: post
// joinedOrDetached, optionally wait for the task to finish, then drop this
// side's reference (spec.md §4.E "thread::join" / "thread::detach").
func (s *State) release(waitForFinish bool) {
	s.joinedOrDetached.Post()
	if waitForFinish {
		s.finished.Wait()
	}
	if s.refcount.Add(-1) == 0 {
		if !waitForFinish {
			// Detach reached zero: the task's own decrement came first, but
			// it may not have posted finished yet. Wait for that post so
			// the task is done with s.finished before it is destroyed.
			s.finished.Wait()
		}
		s.destroy()
	}
}

// Join blocks until the thread terminates, then releases its resources
// (spec.md §4.E "thread::join"). Returns ErrOperationNotPermitted if the
// Handle is not joinable.
func (h *Handle) Join() error {
	if h.state == nil {
		return rterrors.ErrOperationNotPermitted
	}
	s := h.state
	h.state = nil
	s.release(true)
	return nil
}

// Detach lets the thread run to completion independently of this Handle
// (spec.md §4.E "thread::detach"). Returns ErrOperationNotPermitted if the
// Handle is not joinable.
func (h *Handle) Detach() error {
	if h.state == nil {
		return rterrors.ErrOperationNotPermitted
	}
	s := h.state
	h.state = nil
	s.release(false)
	return nil
}

// Joinable reports whether Join or Detach has not yet been called.
func (h *Handle) Joinable() bool { return h.state != nil }

// ID returns the thread's identifier while the Handle is joinable, and the
// zero ID once Join or Detach has been called.
func (h *Handle) ID() ID { return h.idOf() }

func (h *Handle) idOf() ID {
	if h.state == nil {
		return 0
	}
	return h.state.id
}

// Priority returns the thread's current scheduling priority (spec.md §4.E,
// via rtos.Provider.TaskPriority). Fails if the Handle is not joinable.
func (h *Handle) Priority() (rtos.Priority, error) {
	if h.state == nil {
		return 0, rterrors.ErrOperationNotPermitted
	}
	return h.state.provider.TaskPriority(h.state.taskID)
}

// SetSignals ORs mask into the thread's signal flags, returning the flags
// observed beforehand (spec.md §4.E "thread::set_signals").
func (h *Handle) SetSignals(mask uint16) (uint16, error) {
	if h.state == nil {
		return 0, rterrors.ErrOperationNotPermitted
	}
	return h.signalHandle().SetSignals(mask)
}

// ClearSignals ANDs mask's complement into the thread's signal flags
// (spec.md §4.E "thread::clear_signals").
func (h *Handle) ClearSignals(mask uint16) (uint16, error) {
	if h.state == nil {
		return 0, rterrors.ErrOperationNotPermitted
	}
	return h.signalHandle().ClearSignals(mask)
}

func (h *Handle) signalHandle() *signal.Handle {
	return signal.New(h.state.provider, h.state.taskID, h.state.maxSignals)
}

// CurrentID returns the calling task's thread ID, the equivalent of the
// original's this_thread::get_id(), found by matching the running task
// against the live-thread registry.
func CurrentID(provider rtos.Provider) (ID, bool) {
	current := provider.TaskCurrent()
	var found ID
	var ok bool
	liveThreads.forEach(provider, func(s *State) bool {
		if s.taskID == current {
			found, ok = s.id, true
			return false
		}
		return true
	})
	return found, ok
}

// Yield surrenders the remainder of the calling task's current time slice
// (spec.md §4.E supplement, this_thread::yield()).
func Yield(provider rtos.Provider) { provider.TaskYield() }

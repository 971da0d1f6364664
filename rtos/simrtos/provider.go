// Package simrtos is the one production rtos.Provider backend this module
// ships: a software simulation of a minimal RTOS running each task as a
// goroutine, tasks' mutexes/semaphores as buffered channels, and the
// SysTick/coarse-tick pair derived from one real monotonic time source so
// that clock.Now() is wall-clock accurate (spec.md §8 property 5) while
// still exercising the same fusion algorithm a real Cortex-M backend would
// need (spec.md §4.C). It stands in for the CMSIS-RTOS/bare-metal adapter
// the original C++ library links against.
package simrtos

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/weos-rt/weos/config"
	"github.com/weos-rt/weos/rterrors"
	"github.com/weos-rt/weos/rtlog"
	"github.com/weos-rt/weos/rtos"
)

// monotonicNanos reads CLOCK_MONOTONIC directly rather than going through
// time.Now()/time.Since, the same register-level source a bare-metal
// SysTick/coarse-tick pair would chain off of (spec.md §4.C). Falls back to
// the runtime's own monotonic reading if the syscall ever fails.
func monotonicNanos() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return time.Now().UnixNano()
	}
	return ts.Sec*int64(time.Second) + ts.Nsec
}

type taskState struct {
	id       rtos.TaskID
	priority rtos.Priority
	mu       sync.Mutex
	cond     *sync.Cond
	signals  uint16
	done     chan struct{}
}

// Provider is a goroutine-backed rtos.Provider. The zero value is not
// usable; construct with New.
type Provider struct {
	cfg config.Config
	log rtlog.Logger

	privileged sync.Mutex // simulates the SVC's preemption-excluding section
	startTime  int64      // monotonicNanos() at construction
	tickPeriod time.Duration // duration of one coarse (SysTick) tick

	goroutineTasks sync.Map // goroutine id (uint64) -> rtos.TaskID
	tasksMu        sync.Mutex
	tasks          map[rtos.TaskID]*taskState
	nextTaskID     rtos.TaskID

	mutexMu    sync.Mutex
	mutexes    map[rtos.MutexID]chan struct{}
	nextMutex  rtos.MutexID
	semMu      sync.Mutex
	semaphores map[rtos.SemaphoreID]chan struct{}
	nextSem    rtos.SemaphoreID

	isrGoroutine uint64 // 0 means "no ISR goroutine registered yet"
	isrJobs      chan func()
}

// New builds a Provider from cfg, starting the single simulated ISR worker
// goroutine that RunInInterrupt dispatches to.
func New(cfg config.Config, log rtlog.Logger) *Provider {
	if log == nil {
		log = rtlog.Default
	}
	p := &Provider{
		cfg:        cfg,
		log:        log,
		startTime:  monotonicNanos(),
		tickPeriod: time.Second / time.Duration(cfg.SystickFrequencyHz),
		tasks:      make(map[rtos.TaskID]*taskState),
		mutexes:    make(map[rtos.MutexID]chan struct{}),
		semaphores: make(map[rtos.SemaphoreID]chan struct{}),
		isrJobs:    make(chan func()),
	}
	isrReady := make(chan struct{})
	go p.runISRWorker(isrReady)
	<-isrReady
	return p
}

func (p *Provider) runISRWorker(ready chan struct{}) {
	p.isrGoroutine = goroutineID()
	close(ready)
	for job := range p.isrJobs {
		job()
	}
}

// RunInInterrupt runs fn on the dedicated simulated-ISR goroutine, matching
// spec.md §5's "ISRs run at a priority above all tasks and cannot block":
// all simulated interrupts are serialized through this one worker, so fn
// must not itself block.
func (p *Provider) RunInInterrupt(fn func()) {
	done := make(chan struct{})
	p.isrJobs <- func() {
		defer close(done)
		fn()
	}
	<-done
}

func (p *Provider) currentTask() (*taskState, bool) {
	v, ok := p.goroutineTasks.Load(goroutineID())
	if !ok {
		return nil, false
	}
	p.tasksMu.Lock()
	t := p.tasks[v.(rtos.TaskID)]
	p.tasksMu.Unlock()
	return t, t != nil
}

// TaskCreate implements rtos.Provider.
func (p *Provider) TaskCreate(entry func(arg any), stackBase []byte, priority rtos.Priority, arg any) (rtos.TaskID, error) {
	if entry == nil {
		return 0, rterrors.ErrInvalidArgument
	}
	p.tasksMu.Lock()
	p.nextTaskID++
	id := p.nextTaskID
	st := &taskState{id: id, priority: priority, done: make(chan struct{})}
	st.cond = sync.NewCond(&st.mu)
	p.tasks[id] = st
	p.tasksMu.Unlock()

	started := make(chan struct{})
	go func() {
		p.goroutineTasks.Store(goroutineID(), id)
		close(started)
		defer close(st.done)
		entry(arg)
	}()
	<-started
	return id, nil
}

// TaskTerminate implements rtos.Provider.
func (p *Provider) TaskTerminate(id rtos.TaskID) error {
	p.tasksMu.Lock()
	delete(p.tasks, id)
	p.tasksMu.Unlock()
	return nil
}

// TaskYield implements rtos.Provider.
func (p *Provider) TaskYield() { runtimeGosched() }

// TaskCurrent implements rtos.Provider. A goroutine that was never created
// via TaskCreate (e.g. a test's top-level goroutine) is reported as task 0,
// a bootstrap pseudo-task.
func (p *Provider) TaskCurrent() rtos.TaskID {
	if t, ok := p.currentTask(); ok {
		return t.id
	}
	return 0
}

// TaskPriority implements rtos.Provider.
func (p *Provider) TaskPriority(id rtos.TaskID) (rtos.Priority, error) {
	p.tasksMu.Lock()
	defer p.tasksMu.Unlock()
	t, ok := p.tasks[id]
	if !ok {
		return 0, rterrors.ErrInvalidArgument
	}
	return t.priority, nil
}

// TaskDelay implements rtos.Provider.
func (p *Provider) TaskDelay(ticks uint32) {
	time.Sleep(time.Duration(ticks) * p.tickPeriod)
}

// MutexCreate implements rtos.Provider. The mutex is represented as a
// capacity-1 channel pre-loaded with one token (unlocked state) — the same
// trick used for Semaphore below, since a binary mutex is a counting
// semaphore with N=1.
func (p *Provider) MutexCreate() (rtos.MutexID, error) {
	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	p.mutexMu.Lock()
	p.nextMutex++
	id := p.nextMutex
	p.mutexes[id] = ch
	p.mutexMu.Unlock()
	return id, nil
}

func (p *Provider) MutexDestroy(id rtos.MutexID) error {
	p.mutexMu.Lock()
	delete(p.mutexes, id)
	p.mutexMu.Unlock()
	return nil
}

func (p *Provider) MutexWait(id rtos.MutexID, timeoutTicks uint32) rtos.WaitResult {
	p.mutexMu.Lock()
	ch := p.mutexes[id]
	p.mutexMu.Unlock()
	if ch == nil {
		return rtos.WaitTimeout
	}
	return waitChan(ch, timeoutTicks, p.tickPeriod)
}

func (p *Provider) MutexRelease(id rtos.MutexID) error {
	p.mutexMu.Lock()
	ch := p.mutexes[id]
	p.mutexMu.Unlock()
	if ch == nil {
		return rterrors.ErrInvalidArgument
	}
	releaseChan(ch)
	return nil
}

// SemaphoreCreate implements rtos.Provider with a capacity-65535 channel
// (spec.md §4.F "16-bit value") pre-loaded with `initial` tokens.
func (p *Provider) SemaphoreCreate(initial int32) (rtos.SemaphoreID, error) {
	ch := make(chan struct{}, 1<<16-1)
	for i := int32(0); i < initial; i++ {
		ch <- struct{}{}
	}
	p.semMu.Lock()
	p.nextSem++
	id := p.nextSem
	p.semaphores[id] = ch
	p.semMu.Unlock()
	return id, nil
}

func (p *Provider) SemaphoreDestroy(id rtos.SemaphoreID) error {
	p.semMu.Lock()
	delete(p.semaphores, id)
	p.semMu.Unlock()
	return nil
}

func (p *Provider) SemaphoreWait(id rtos.SemaphoreID, timeoutTicks uint32) rtos.WaitResult {
	p.semMu.Lock()
	ch := p.semaphores[id]
	p.semMu.Unlock()
	if ch == nil {
		return rtos.WaitTimeout
	}
	return waitChan(ch, timeoutTicks, p.tickPeriod)
}

func (p *Provider) SemaphoreRelease(id rtos.SemaphoreID) error {
	p.semMu.Lock()
	ch := p.semaphores[id]
	p.semMu.Unlock()
	if ch == nil {
		return rterrors.ErrInvalidArgument
	}
	releaseChan(ch)
	return nil
}

func (p *Provider) SemaphoreValue(id rtos.SemaphoreID) int32 {
	p.semMu.Lock()
	ch := p.semaphores[id]
	p.semMu.Unlock()
	return int32(len(ch))
}

// SignalSet implements rtos.Provider.
func (p *Provider) SignalSet(task rtos.TaskID, mask uint16) (uint16, error) {
	p.tasksMu.Lock()
	t, ok := p.tasks[task]
	p.tasksMu.Unlock()
	if !ok {
		return 0, rterrors.ErrInvalidArgument
	}
	t.mu.Lock()
	prev := t.signals
	t.signals |= mask
	t.cond.Broadcast()
	t.mu.Unlock()
	return prev, nil
}

// SignalClear implements rtos.Provider.
func (p *Provider) SignalClear(task rtos.TaskID, mask uint16) (uint16, error) {
	p.tasksMu.Lock()
	t, ok := p.tasks[task]
	p.tasksMu.Unlock()
	if !ok {
		return 0, rterrors.ErrInvalidArgument
	}
	t.mu.Lock()
	prev := t.signals
	t.signals &^= mask
	t.mu.Unlock()
	return prev, nil
}

// SignalWait implements rtos.Provider for the calling task.
func (p *Provider) SignalWait(mask uint16, timeoutTicks uint32) (uint16, rtos.WaitResult) {
	t, ok := p.currentTask()
	if !ok {
		return 0, rtos.WaitTimeout
	}
	deadline := p.deadlineFor(timeoutTicks)

	t.mu.Lock()
	defer t.mu.Unlock()
	for {
		if observed := t.signals & mask; observed != 0 {
			t.signals &^= observed
			return observed, rtos.WaitOK
		}
		if timeoutTicks != rtos.Forever && time.Now().After(deadline) {
			return 0, rtos.WaitTimeout
		}
		waitOnCondWithDeadline(t.cond, deadline, timeoutTicks == rtos.Forever)
	}
}

func (p *Provider) deadlineFor(timeoutTicks uint32) time.Time {
	if timeoutTicks == rtos.Forever {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(timeoutTicks) * p.tickPeriod)
}

// SystickValue, SystickOverflowPending, CoarseTick, SystickReload implement
// the chained-clock source rtos.Provider specifies (spec.md §4.C), all
// derived from one real elapsed-time reading so they are mutually
// consistent by construction; clock's double-read algorithm still runs
// (spec.md §4.C step 1-2) but will always observe a consistent pair here,
// which is the correct behavior for a simulation with no real register
// race.
func (p *Provider) SystickValue() uint32 {
	_, countdown := p.coarseAndCountdown()
	return countdown
}

func (p *Provider) SystickOverflowPending() bool { return false }

func (p *Provider) CoarseTick() uint32 {
	coarse, _ := p.coarseAndCountdown()
	return coarse
}

func (p *Provider) SystickReload() uint32 { return p.cfg.SystickReload() }

func (p *Provider) TickPeriod() time.Duration { return p.tickPeriod }

func (p *Provider) coarseAndCountdown() (coarse, countdown uint32) {
	elapsedNanos := monotonicNanos() - p.startTime
	systemTicksPerSec := uint64(p.cfg.SystemClockFrequencyHz)
	totalSystemTicks := uint64(elapsedNanos) * systemTicksPerSec / uint64(time.Second)
	reload := p.cfg.SystickReload()
	ticksPerCoarse := uint64(reload) + 1
	coarse = uint32(totalSystemTicks / ticksPerCoarse)
	countdown = reload - uint32(totalSystemTicks%ticksPerCoarse)
	return coarse, countdown
}

// InInterrupt implements rtos.Provider: true iff the calling goroutine is
// the dedicated ISR worker started by New.
func (p *Provider) InInterrupt() bool {
	return goroutineID() == p.isrGoroutine
}

// SVCCall implements rtos.Provider by holding a single process-wide mutex
// around fn, simulating the preemption exclusion a real SVC thunk buys
// (spec.md §4.A, REDESIGN FLAGS). Must not be called from ISR context.
func (p *Provider) SVCCall(fn func()) {
	p.privileged.Lock()
	defer p.privileged.Unlock()
	fn()
}

// Now implements rtos.Provider.
func (p *Provider) Now() time.Time { return time.Now() }

var _ rtos.Provider = (*Provider)(nil)

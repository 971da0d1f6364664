package simrtos

import (
	"runtime"
	"sync"
	"time"

	"github.com/weos-rt/weos/rtos"
)

func runtimeGosched() { runtime.Gosched() }

// waitChan implements the timed-wait contract every raw mutex/semaphore
// wait in rtos.Provider shares: Forever blocks indefinitely, 0 polls once,
// anything else waits up to timeoutTicks*tickPeriod.
func waitChan(ch chan struct{}, timeoutTicks uint32, tickPeriod time.Duration) rtos.WaitResult {
	if timeoutTicks == rtos.Forever {
		<-ch
		return rtos.WaitOK
	}
	if timeoutTicks == 0 {
		select {
		case <-ch:
			return rtos.WaitOK
		default:
			return rtos.WaitTimeout
		}
	}
	timer := time.NewTimer(time.Duration(timeoutTicks) * tickPeriod)
	defer timer.Stop()
	select {
	case <-ch:
		return rtos.WaitOK
	case <-timer.C:
		return rtos.WaitTimeout
	}
}

// releaseChan posts one token, saturating silently if the channel is
// already full — matching a real counting semaphore's typical overflow
// behavior rather than panicking or blocking the releaser.
func releaseChan(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// waitOnCondWithDeadline waits on cond until either it is signaled or, for
// a bounded wait, the deadline passes. sync.Cond has no native timed wait,
// so a watchdog goroutine broadcasts once the deadline elapses; this is the
// standard Go idiom for bolting a deadline onto a condition variable.
func waitOnCondWithDeadline(cond *sync.Cond, deadline time.Time, forever bool) {
	if forever {
		cond.Wait()
		return
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return
	}
	timer := time.AfterFunc(remaining, cond.Broadcast)
	defer timer.Stop()
	cond.Wait()
}

package rtsync_test

import (
	"sync"
	"testing"
	"time"

	"github.com/weos-rt/weos/atomics"
	"github.com/weos-rt/weos/config"
	"github.com/weos-rt/weos/rterrors"
	"github.com/weos-rt/weos/rtos/simrtos"
	"github.com/weos-rt/weos/rtsync"
)

func newProvider(t *testing.T) *simrtos.Provider {
	t.Helper()
	return simrtos.New(config.Default(), nil)
}

// TestMutexReentryDeadlocks Requires: locking an already-held non-recursive
// mutex on the same goroutine reports ErrResourceDeadlockWouldOccur and
// leaves the mutex unlocked (spec.md §8 property 6).
func TestMutexReentryDeadlocks(t *testing.T) {
	p := newProvider(t)
	m, err := rtsync.NewMutex(p)
	if err != nil {
		t.Fatalf("NewMutex: %v", err)
	}
	if err := m.Lock(); err != nil {
		t.Fatalf("first Lock: %v", err)
	}
	if err := m.Lock(); err != rterrors.ErrResourceDeadlockWouldOccur {
		t.Fatalf("re-entrant Lock: got %v, want ErrResourceDeadlockWouldOccur", err)
	}
	if ok, _ := m.TryLock(); !ok {
		t.Fatalf("TryLock should succeed: mutex must be unlocked after the deadlock error")
	}
}

// TestRecursiveMutexNesting Requires: RecursiveMutex supports N nested
// locks by the same task (spec.md §8 property 6).
func TestRecursiveMutexNesting(t *testing.T) {
	p := newProvider(t)
	m, err := rtsync.NewRecursiveMutex(p)
	if err != nil {
		t.Fatalf("NewRecursiveMutex: %v", err)
	}
	const depth = 5
	for i := 0; i < depth; i++ {
		if err := m.Lock(); err != nil {
			t.Fatalf("Lock at depth %d: %v", i, err)
		}
	}
	for i := 0; i < depth; i++ {
		if err := m.Unlock(); err != nil {
			t.Fatalf("Unlock at depth %d: %v", i, err)
		}
	}
}

// TestTimedMutexTryLockFor Requires: try_lock_for returns false after
// roughly the requested duration when the mutex is already held (spec.md §8
// scenario S5).
func TestTimedMutexTryLockFor(t *testing.T) {
	p := newProvider(t)
	m, err := rtsync.NewTimedMutex(p)
	if err != nil {
		t.Fatalf("NewTimedMutex: %v", err)
	}
	if err := m.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	start := time.Now()
	ok, err := m.TryLockFor(50 * time.Millisecond)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("TryLockFor: %v", err)
	}
	if ok {
		t.Fatalf("TryLockFor succeeded while the mutex was held elsewhere")
	}
	if elapsed < 40*time.Millisecond {
		t.Fatalf("TryLockFor returned too early: %v", elapsed)
	}
}

// TestCondVarNotifyOne Requires: a single waiter wakes after Wait is
// unblocked by NotifyOne and re-acquires the lock before Wait returns.
func TestCondVarNotifyOne(t *testing.T) {
	p := newProvider(t)
	m, err := rtsync.NewMutex(p)
	if err != nil {
		t.Fatalf("NewMutex: %v", err)
	}
	cv := rtsync.NewCondVar(p)
	ready := false
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.Lock()
		for !ready {
			cv.Wait(m)
		}
		m.Unlock()
	}()
	time.Sleep(5 * time.Millisecond)
	m.Lock()
	ready = true
	m.Unlock()
	cv.NotifyOne()
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter never woke after NotifyOne")
	}
}

// TestLatchReleasesAllAtThreshold Requires: CountDownAndWait across three
// workers releases all three only once the count reaches zero (spec.md §8
// scenario S3).
func TestLatchReleasesAllAtThreshold(t *testing.T) {
	p := newProvider(t)
	l := rtsync.NewLatch(p, 3)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.CountDownAndWait()
		}()
	}
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("latch never released its three workers")
	}
	if !l.IsReady() {
		t.Fatalf("IsReady() should be true once the latch has released")
	}
}

// TestSynchronicNotifyWakesExpect Requires: Expect blocks until Notify
// publishes the awaited value.
func TestSynchronicNotifyWakesExpect(t *testing.T) {
	p := newProvider(t)
	s := rtsync.NewSynchronic[int](p, 0)
	done := make(chan struct{})
	go func() {
		s.Expect(42, atomics.SeqCst)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	s.Notify(42, atomics.SeqCst, true)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expect never observed the notified value")
	}
}

package simrtos_test

import (
	"testing"
	"time"

	"github.com/weos-rt/weos/config"
	"github.com/weos-rt/weos/rtos"
	"github.com/weos-rt/weos/rtos/simrtos"
)

func newTestProvider(t *testing.T) *simrtos.Provider {
	t.Helper()
	return simrtos.New(config.Default(), nil)
}

// TestMutexRoundTrip Requires: a freshly created mutex starts unlocked, a
// single waiter acquires it, and release lets a second waiter in.
func TestMutexRoundTrip(t *testing.T) {
	p := newTestProvider(t)
	id, err := p.MutexCreate()
	if err != nil {
		t.Fatalf("MutexCreate: %v", err)
	}
	if got := p.MutexWait(id, rtos.Forever); got != rtos.WaitOK {
		t.Fatalf("first MutexWait = %v, want WaitOK", got)
	}
	if got := p.MutexWait(id, 0); got != rtos.WaitTimeout {
		t.Fatalf("contended MutexWait(0) = %v, want WaitTimeout", got)
	}
	if err := p.MutexRelease(id); err != nil {
		t.Fatalf("MutexRelease: %v", err)
	}
	if got := p.MutexWait(id, 0); got != rtos.WaitOK {
		t.Fatalf("MutexWait after release = %v, want WaitOK", got)
	}
}

// TestSemaphoreValue Requires: SemaphoreValue tracks posts and waits.
func TestSemaphoreValue(t *testing.T) {
	p := newTestProvider(t)
	id, err := p.SemaphoreCreate(0)
	if err != nil {
		t.Fatalf("SemaphoreCreate: %v", err)
	}
	if err := p.SemaphoreRelease(id); err != nil {
		t.Fatalf("SemaphoreRelease: %v", err)
	}
	if v := p.SemaphoreValue(id); v != 1 {
		t.Fatalf("SemaphoreValue = %d, want 1", v)
	}
	if got := p.SemaphoreWait(id, rtos.Forever); got != rtos.WaitOK {
		t.Fatalf("SemaphoreWait = %v, want WaitOK", got)
	}
	if v := p.SemaphoreValue(id); v != 0 {
		t.Fatalf("SemaphoreValue after wait = %d, want 0", v)
	}
}

// TestSignalSetWait Requires: SignalWait observes a bit set after task
// creation and clears only the bits it reports.
func TestSignalSetWait(t *testing.T) {
	p := newTestProvider(t)
	started := make(chan struct{})
	result := make(chan uint16, 1)
	id, err := p.TaskCreate(func(any) {
		close(started)
		observed, res := p.SignalWait(0x0003, rtos.Forever)
		if res != rtos.WaitOK {
			t.Errorf("SignalWait: want WaitOK, got %v", res)
		}
		result <- observed
	}, nil, 1, nil)
	if err != nil {
		t.Fatalf("TaskCreate: %v", err)
	}
	<-started
	time.Sleep(time.Millisecond) // let the task block on SignalWait
	if _, err := p.SignalSet(id, 0x0001); err != nil {
		t.Fatalf("SignalSet: %v", err)
	}
	select {
	case observed := <-result:
		if observed != 0x0001 {
			t.Fatalf("observed = %#x, want 0x1", observed)
		}
	case <-time.After(time.Second):
		t.Fatal("SignalWait never returned")
	}
}

// TestInInterrupt Requires: code run via RunInInterrupt reports
// InInterrupt() true; ordinary task-context code reports false.
func TestInInterrupt(t *testing.T) {
	p := newTestProvider(t)
	if p.InInterrupt() {
		t.Fatalf("InInterrupt() should be false on the test goroutine")
	}
	var observed bool
	p.RunInInterrupt(func() { observed = p.InInterrupt() })
	if !observed {
		t.Fatalf("InInterrupt() should be true inside RunInInterrupt")
	}
}

// TestCoarseTickAdvances Requires: CoarseTick/SystickValue derive from a
// real monotonic source and advance over a short sleep.
func TestCoarseTickAdvances(t *testing.T) {
	p := newTestProvider(t)
	c1 := p.CoarseTick()
	time.Sleep(5 * time.Millisecond)
	c2 := p.CoarseTick()
	if c2 < c1 {
		t.Fatalf("CoarseTick went backwards: %d -> %d", c1, c2)
	}
}

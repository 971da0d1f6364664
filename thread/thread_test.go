package thread_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/weos-rt/weos/config"
	"github.com/weos-rt/weos/rtos"
	"github.com/weos-rt/weos/rtos/simrtos"
	"github.com/weos-rt/weos/thread"
)

func newProvider(t *testing.T) (*simrtos.Provider, config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.StackAllocationEnabled = true
	return simrtos.New(cfg, nil), cfg
}

// TestJoinWaitsForCompletion Requires: Join blocks until the thread body
// has returned and observes its side effect.
func TestJoinWaitsForCompletion(t *testing.T) {
	p, cfg := newProvider(t)
	var ran atomic.Bool
	h, err := thread.New(p, cfg, thread.Attributes{Name: "worker"}, func() {
		time.Sleep(5 * time.Millisecond)
		ran.Store(true)
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !h.Joinable() {
		t.Fatalf("freshly created handle should be joinable")
	}
	if err := h.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !ran.Load() {
		t.Fatalf("thread body did not run to completion before Join returned")
	}
	if h.Joinable() {
		t.Fatalf("handle should not be joinable after Join")
	}
	if err := h.Join(); err == nil {
		t.Fatalf("second Join should fail")
	}
}

// TestDetachLetsThreadRunIndependently Requires: Detach does not block,
// and the thread still runs to completion afterward.
func TestDetachLetsThreadRunIndependently(t *testing.T) {
	p, cfg := newProvider(t)
	done := make(chan struct{})
	h, err := thread.New(p, cfg, thread.Attributes{}, func() {
		time.Sleep(5 * time.Millisecond)
		close(done)
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := h.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if h.Joinable() {
		t.Fatalf("handle should not be joinable after Detach")
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("detached thread never completed")
	}
}

// TestForEachThreadSeesLiveThread Requires: a running thread is visible to
// ForEachThread by name until it is joined.
func TestForEachThreadSeesLiveThread(t *testing.T) {
	p, cfg := newProvider(t)
	release := make(chan struct{})
	h, err := thread.New(p, cfg, thread.Attributes{Name: "enumerated"}, func() {
		<-release
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var found bool
	thread.ForEachThread(p, func(info thread.Info) bool {
		if info.Name == "enumerated" {
			found = true
			return false
		}
		return true
	})
	if !found {
		t.Fatalf("ForEachThread did not find the live thread")
	}

	close(release)
	if err := h.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}

	found = false
	thread.ForEachThread(p, func(info thread.Info) bool {
		if info.Name == "enumerated" {
			found = true
		}
		return true
	})
	if found {
		t.Fatalf("ForEachThread still reports a joined thread")
	}
}

// TestSignalsRoundTrip Requires: SetSignals/ClearSignals through a Handle
// are observed by the target thread's own SignalWait.
func TestSignalsRoundTrip(t *testing.T) {
	p, cfg := newProvider(t)
	started := make(chan struct{})
	result := make(chan uint16, 1)
	h, err := thread.New(p, cfg, thread.Attributes{}, func() {
		close(started)
		observed, _ := p.SignalWait(0x0001, rtos.Forever)
		result <- observed
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	<-started
	time.Sleep(time.Millisecond)
	if _, err := h.SetSignals(0x0001); err != nil {
		t.Fatalf("SetSignals: %v", err)
	}
	select {
	case observed := <-result:
		if observed != 0x0001 {
			t.Fatalf("observed = %#x, want 0x1", observed)
		}
	case <-time.After(time.Second):
		t.Fatal("SignalWait never returned")
	}
	if err := h.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}
}

// TestCurrentIDMatchesHandle Requires: CurrentID, called from inside the
// thread body, returns the same ID as Handle.ID.
func TestCurrentIDMatchesHandle(t *testing.T) {
	p, cfg := newProvider(t)
	idCh := make(chan thread.ID, 1)
	h, err := thread.New(p, cfg, thread.Attributes{}, func() {
		id, ok := thread.CurrentID(p)
		if !ok {
			t.Error("CurrentID: not found")
		}
		idCh <- id
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := h.ID()
	select {
	case got := <-idCh:
		if got != want {
			t.Fatalf("CurrentID() = %v, want %v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("thread body never ran")
	}
	if err := h.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}
}

// TestRejectsUndersizedStack Requires: a caller-supplied stack below the
// minimum size is rejected with ErrInvalidArgument.
func TestRejectsUndersizedStack(t *testing.T) {
	p, cfg := newProvider(t)
	_, err := thread.New(p, cfg, thread.Attributes{Stack: make([]byte, 8)}, func() {})
	if err == nil {
		t.Fatalf("New with an 8-byte stack should have failed")
	}
}

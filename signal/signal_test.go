package signal_test

import (
	"testing"
	"time"

	"github.com/weos-rt/weos/config"
	"github.com/weos-rt/weos/rtos"
	"github.com/weos-rt/weos/rtos/simrtos"
	"github.com/weos-rt/weos/signal"
)

// TestPingPongSignals Requires: two tasks exchanging signal bits complete
// 200 round trips without a lost or duplicated wake (spec.md §8 scenario
// S2, reduced iteration count for test speed).
func TestPingPongSignals(t *testing.T) {
	cfg := config.Default()
	p := simrtos.New(cfg, nil)

	const iterations = 200
	aIDCh := make(chan rtos.TaskID, 1)
	bReady := make(chan struct{})
	done := make(chan struct{})

	bID, err := p.TaskCreate(func(any) {
		self := signal.New(p, p.TaskCurrent(), cfg.MaxSignals)
		close(bReady)
		a := signal.New(p, <-aIDCh, cfg.MaxSignals)
		for i := 0; i < iterations; i++ {
			self.WaitForAny(0x0001)
			a.SetSignals(0x0002)
		}
	}, nil, 1, nil)
	if err != nil {
		t.Fatalf("TaskCreate: %v", err)
	}
	<-bReady

	aID, err := p.TaskCreate(func(any) {
		b := signal.New(p, bID, cfg.MaxSignals)
		self := signal.New(p, p.TaskCurrent(), cfg.MaxSignals)
		for i := 0; i < iterations; i++ {
			b.SetSignals(0x0001)
			self.WaitForAny(0x0002)
		}
		close(done)
	}, nil, 1, nil)
	if err != nil {
		t.Fatalf("TaskCreate: %v", err)
	}
	aIDCh <- aID

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ping-pong did not complete in time")
	}
}

// TestWaitForAllAccumulatesBits Requires: WaitForAll only returns once
// every requested bit has been observed, across multiple SetSignals calls.
func TestWaitForAllAccumulatesBits(t *testing.T) {
	cfg := config.Default()
	p := simrtos.New(cfg, nil)
	started := make(chan struct{})
	result := make(chan uint16, 1)
	id, err := p.TaskCreate(func(any) {
		h := signal.New(p, p.TaskCurrent(), cfg.MaxSignals)
		close(started)
		result <- h.WaitForAll(0x0003)
	}, nil, 1, nil)
	if err != nil {
		t.Fatalf("TaskCreate: %v", err)
	}
	<-started
	time.Sleep(time.Millisecond)

	h := signal.New(p, id, cfg.MaxSignals)
	h.SetSignals(0x0001)
	time.Sleep(time.Millisecond)
	h.SetSignals(0x0002)

	select {
	case got := <-result:
		if got != 0x0003 {
			t.Fatalf("WaitForAll returned %#x, want 0x3", got)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForAll never returned")
	}
}

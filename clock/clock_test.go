package clock_test

import (
	"testing"
	"time"

	"github.com/weos-rt/weos/clock"
	"github.com/weos-rt/weos/config"
	"github.com/weos-rt/weos/rtos/simrtos"
)

// TestTicksMonotonic Requires: sequential Ticks() calls from one goroutine
// never go backwards (spec.md §8 property 4).
func TestTicksMonotonic(t *testing.T) {
	p := simrtos.New(config.Default(), nil)
	c := clock.New(p)
	var last uint64
	for i := 0; i < 1000; i++ {
		v := c.Ticks()
		if v < last {
			t.Fatalf("Ticks went backwards: %d -> %d", last, v)
		}
		last = v
	}
}

// TestHighResolutionClockAccuracy Requires: over a short wall interval,
// elapsed HighResolutionClock time for a 50ms sleep falls within 40..70ms
// (spec.md §8 property 5, relaxed to a short interval for test speed).
func TestHighResolutionClockAccuracy(t *testing.T) {
	cfg := config.Default()
	p := simrtos.New(cfg, nil)
	c := clock.New(p)
	hrc := clock.NewHighResolutionClock(c)
	start := hrc.Now(cfg.SystemClockFrequencyHz)
	time.Sleep(50 * time.Millisecond)
	end := hrc.Now(cfg.SystemClockFrequencyHz)
	elapsed := end - start
	if elapsed < 40*time.Millisecond || elapsed > 70*time.Millisecond {
		t.Fatalf("HighResolutionClock drifted too far: elapsed %v, want ~50ms", elapsed)
	}
}

// TestSleepFor Requires: SleepFor blocks for approximately the requested
// duration.
func TestSleepFor(t *testing.T) {
	cfg := config.Default()
	p := simrtos.New(cfg, nil)
	start := time.Now()
	clock.SleepFor(p, cfg.SystemClockFrequencyHz, 20*time.Millisecond)
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Fatalf("SleepFor returned too early: %v", elapsed)
	}
}

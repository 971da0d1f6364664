package rtmetrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/weos-rt/weos/rtmetrics"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetGauge().GetValue()
}

// TestTWQDepthObserverWritesThroughVec Requires: the Observer returned for
// a named queue updates that queue's label series only.
func TestTWQDepthObserverWritesThroughVec(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := rtmetrics.NewRegistry(reg)

	obs := r.TWQDepthObserver("mutex-foo")
	obs.Set(3)

	if got := gaugeValue(t, r.TWQDepth.WithLabelValues("mutex-foo")); got != 3 {
		t.Fatalf("TWQDepth[mutex-foo] = %v, want 3", got)
	}
	if got := gaugeValue(t, r.TWQDepth.WithLabelValues("mutex-bar")); got != 0 {
		t.Fatalf("TWQDepth[mutex-bar] = %v, want 0 (untouched series)", got)
	}
}

// TestLiveThreadsGauge Requires: LiveThreads reflects direct Set calls.
func TestLiveThreadsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := rtmetrics.NewRegistry(reg)

	r.LiveThreads.Set(5)
	if got := gaugeValue(t, r.LiveThreads); got != 5 {
		t.Fatalf("LiveThreads = %v, want 5", got)
	}
}

// TestClockWrapsCounterOnlyIncreases Requires: ClockWraps is a counter:
// repeated Inc calls accumulate and it satisfies rtmetrics.Counter.
func TestClockWrapsCounterOnlyIncreases(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := rtmetrics.NewRegistry(reg)

	var c rtmetrics.Counter = r.ClockWraps
	c.Inc()
	c.Inc()

	var m dto.Metric
	if err := r.ClockWraps.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := m.GetCounter().GetValue(); got != 2 {
		t.Fatalf("ClockWraps = %v, want 2", got)
	}
}

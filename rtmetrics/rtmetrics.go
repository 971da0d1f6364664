// Package rtmetrics exports, via github.com/prometheus/client_golang,
// counters the core already maintains for correctness: thread-wait queue
// depth, live-thread count, message-queue occupancy, and the chained
// clock's overflow-wrap count (SPEC_FULL.md §2.3). Nothing here is
// inferred data — every metric mirrors a field twq/thread/mq/clock update
// anyway — and every consumer treats its observer as optional, so a
// process that never calls NewRegistry pays nothing.
package rtmetrics

import "github.com/prometheus/client_golang/prometheus"

// Observer receives a single scalar reading. prometheus.Gauge and the
// result of a *prometheus.GaugeVec's WithLabelValues(...) both satisfy it,
// so twq/thread/mq depend on this one-method interface rather than on
// prometheus directly.
type Observer interface{ Set(float64) }

// Counter receives monotonic increments. prometheus.Counter satisfies it.
type Counter interface{ Inc() }

// Registry holds the standard metric set this module exports.
type Registry struct {
	TWQDepth    *prometheus.GaugeVec
	LiveThreads prometheus.Gauge
	MQOccupancy *prometheus.GaugeVec
	ClockWraps  prometheus.Counter
}

// NewRegistry creates and registers the standard metric set against reg
// (pass prometheus.DefaultRegisterer, or a fresh *prometheus.Registry in
// tests that must not pollute the global default).
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		TWQDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "weos",
			Subsystem: "twq",
			Name:      "depth",
			Help:      "Waiters currently enrolled in a thread-wait queue.",
		}, []string{"queue"}),
		LiveThreads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weos",
			Name:      "live_threads",
			Help:      "Threads currently live in the process-wide registry.",
		}),
		MQOccupancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "weos",
			Subsystem: "mq",
			Name:      "occupancy",
			Help:      "Queued elements in a message queue.",
		}, []string{"queue"}),
		ClockWraps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weos",
			Subsystem: "clock",
			Name:      "overflow_wraps_total",
			Help:      "Times the chained monotonic clock's overflow word has incremented.",
		}),
	}
	reg.MustRegister(r.TWQDepth, r.LiveThreads, r.MQOccupancy, r.ClockWraps)
	return r
}

// TWQDepthObserver returns the Observer for one named queue, for
// twq.Queue.SetDepthObserver.
func (r *Registry) TWQDepthObserver(queue string) Observer {
	return r.TWQDepth.WithLabelValues(queue)
}

// MQOccupancyObserver returns the Observer for one named queue, for
// mq.Queue.SetOccupancyObserver.
func (r *Registry) MQOccupancyObserver(queue string) Observer {
	return r.MQOccupancy.WithLabelValues(queue)
}

package thread

import "github.com/weos-rt/weos/rtos"

// Info is a snapshot of one live thread's bookkeeping, adapted from
// original_source/src/_cmsis_rtos/_thread.hpp's expert::thread_info —
// dropped by the distillation, reinstated here because ForEachThread is
// otherwise useless (spec.md §4.E supplement).
type Info struct {
	Name       string
	ID         ID
	Priority   rtos.Priority
	StackBytes int
	UsedBytes  int
}

// ForEachThread calls f for every live thread, stopping early if f returns
// false. Like the original, this runs in a privileged (ISR) context: f
// must not block on a mutex or anything else that only a task can release
// (spec.md §4.E "Enumeration").
func ForEachThread(provider rtos.Provider, f func(Info) bool) {
	liveThreads.forEach(provider, func(s *State) bool {
		return f(Info{
			Name:       s.attrs.Name,
			ID:         s.id,
			Priority:   s.attrs.Priority,
			StackBytes: len(s.stack),
			UsedBytes:  usedBytes(s.stack),
		})
	})
}

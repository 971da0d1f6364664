// Package thread implements spec.md §4.E thread lifecycle management:
// stack handling, creation, join/detach, signal access, enumeration, and
// the expert stack-usage diagnostic, built on taskid, signal, and
// rtos.Provider.
package thread

import "github.com/weos-rt/weos/rtos"

// Attributes configures a thread created with New (spec.md §4.E
// "thread_attributes").
type Attributes struct {
	// Name is an optional human-readable label surfaced through
	// expert.ThreadInfo.
	Name string

	// Priority is the scheduling priority passed to the provider.
	Priority rtos.Priority

	// Stack, if non-nil, is caller-owned memory this thread's stack-usage
	// watermark is painted into. If nil, New allocates DefaultStackSize
	// bytes from the heap, provided the config allows it (spec.md §4.E
	// "stack allocation").
	Stack []byte

	// StackSize overrides the config's DefaultStackSize when Stack is nil
	// and StackSize is non-zero.
	StackSize uint32
}

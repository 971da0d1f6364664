package thread

import (
	"runtime"
	"unsafe"

	"github.com/weos-rt/weos/config"
	"github.com/weos-rt/weos/rterrors"
)

const (
	minStackBytes        = 64
	maxStackBytes        = 1 << 24
	stackWatermark uint32 = 0xE25A2EA5
)

// acquireStack resolves attrs.Stack/attrs.StackSize against cfg, allocating
// from the heap when the caller supplied no buffer (spec.md §4.E "stack
// allocation"), and validates the result against the size bounds the
// original enforces (spec.md §4.E "thread::do_create").
func acquireStack(cfg config.Config, attrs Attributes) (stack []byte, owned bool, err error) {
	stack = attrs.Stack
	if stack == nil {
		size := attrs.StackSize
		if size == 0 {
			size = cfg.DefaultStackSize
		}
		if !cfg.StackAllocationEnabled || size == 0 {
			return nil, false, rterrors.ErrNotEnoughMemory
		}
		stack = make([]byte, size)
		owned = true
	}
	if len(stack) < minStackBytes || len(stack) >= maxStackBytes {
		return nil, false, rterrors.ErrInvalidArgument
	}
	return stack, owned, nil
}

// watermarkFill paints stack with a recognizable pattern so usedBytes can
// later estimate how much of it the task actually touched (spec.md §9
// "Stack-watermark heuristic" — a probabilistic diagnostic, not a precise
// one: a task that happens to write the watermark value back to unused
// memory defeats it).
//
// This reinterprets the byte slice as a []uint32 via unsafe.Pointer, pinned
// for the duration of the fill. It deliberately does NOT place a
// pointer-containing Go struct inside the buffer the way the original
// places its shared thread state at the stack base: Go's garbage collector
// only scans memory through the type it was allocated with, so a *State
// constructed via unsafe.Pointer over a plain []byte would have its
// pointer fields (semaphores, the entry closure) invisible to the
// collector and subject to silent corruption. State is therefore a normal
// heap allocation (see thread.go); only this raw numeric watermark buffer
// is manipulated at the byte level. See DESIGN.md.
func watermarkFill(stack []byte) {
	words := stackWords(stack)
	var pinner runtime.Pinner
	if len(words) > 0 {
		pinner.Pin(&words[0])
		defer pinner.Unpin()
	}
	for i := range words {
		words[i] = stackWatermark
	}
}

// usedBytes scans from the end of the watermark pattern to estimate how
// many bytes of stack the task has used, matching
// expert::thread_info::get_used_stack in the original.
func usedBytes(stack []byte) int {
	words := stackWords(stack)
	if len(words) == 0 {
		return len(stack)
	}
	var pinner runtime.Pinner
	pinner.Pin(&words[0])
	defer pinner.Unpin()

	i := 0
	for i < len(words) && words[i] == stackWatermark {
		i++
	}
	tail := len(stack) - len(words)*4
	return (len(words)-i)*4 + tail
}

func stackWords(stack []byte) []uint32 {
	n := len(stack) / 4
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&stack[0])), n)
}

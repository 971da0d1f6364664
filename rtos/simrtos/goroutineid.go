package simrtos

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID extracts the calling goroutine's numeric id by parsing the
// header line of runtime.Stack's output ("goroutine 123 [running]:"). There
// is no goroutine-local-storage primitive in the standard library and
// nothing in the example pack supplies one (the only candidate,
// joeycumines-go-utilpkg's goroutineid package, ships an empty go.mod with
// no source), so this is a documented stdlib-only fallback — see
// DESIGN.md. It is used only to back Provider.TaskCurrent/InInterrupt; the
// 64-bit clock never calls it, but every TWQ Enroll/Unlink/NotifyOne/
// NotifyAll does, through InInterrupt.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]
	const prefix = "goroutine "
	buf = buf[len(prefix):]
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}
	id, _ := strconv.ParseUint(string(buf), 10, 64)
	return id
}

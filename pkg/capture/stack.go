package capture

import (
	"fmt"
	"runtime"
	"strings"
)

const maxStackFrames = 50

// StackTrace renders the current goroutine's stack as text, one
// "function (file:line)" entry per line, skipping the given number of
// frames above this function. Runtime internals are elided.
func StackTrace(skip int) string {
	pcs := make([]uintptr, maxStackFrames)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&b, "%s (%s:%d)\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

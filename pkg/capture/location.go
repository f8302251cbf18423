// Package capture resolves call-site locations, renders stack traces,
// and formats variable values for transmission.
package capture

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Location identifies the instrumented call site that requested a
// capture.
type Location struct {
	File     string // base file name, e.g. "billing.go"
	Line     int
	Function string // package-qualified, e.g. "billing.Checkout"
}

// Caller resolves the call site skip frames above this function.
// ok is false when the runtime cannot resolve the frame; callers skip
// the capture silently in that case.
func Caller(skip int) (Location, bool) {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{}, false
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return Location{}, false
	}

	return Location{
		File:     filepath.Base(file),
		Line:     line,
		Function: shortFunctionName(fn.Name()),
	}, true
}

// shortFunctionName trims the import-path prefix from a runtime
// function name, keeping the package-qualified form:
// "github.com/acme/svc/billing.Checkout" -> "billing.Checkout".
func shortFunctionName(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		return full[i+1:]
	}
	return full
}

// Package snapshot assembles sanitized variable-state records and hands
// them to the submission path. A Snapshot is created once, transmitted
// once, and never mutated or persisted locally.
package snapshot

import (
	"time"

	"github.com/google/uuid"
)

// SecurityFlag marks one sensitive-data hit raised while sanitizing a
// captured variable.
type SecurityFlag struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Variable string `json:"variable"`
}

// Snapshot is an immutable record of captured variable state and
// execution context at a breakpoint. Trace and span IDs are opaque
// strings supplied by the tracing integration, empty when absent.
type Snapshot struct {
	ID             string         `json:"id"`
	BreakpointID   string         `json:"breakpoint_id"`
	ServiceName    string         `json:"service_name"`
	FilePath       string         `json:"file_path"`
	FunctionName   string         `json:"function_name"`
	Label          string         `json:"label,omitempty"`
	LineNumber     int            `json:"line_number"`
	Variables      map[string]any `json:"variables"`
	SecurityFlags  []SecurityFlag `json:"security_flags"`
	StackTrace     string         `json:"stack_trace"`
	TraceID        string         `json:"trace_id,omitempty"`
	SpanID         string         `json:"span_id,omitempty"`
	RequestContext map[string]any `json:"request_context,omitempty"`
	CapturedAt     time.Time      `json:"captured_at"`
}

// New builds a Snapshot with a fresh ID and the current timestamp.
func New(breakpointID, serviceName string) *Snapshot {
	return &Snapshot{
		ID:           uuid.New().String(),
		BreakpointID: breakpointID,
		ServiceName:  serviceName,
		CapturedAt:   time.Now().UTC(),
	}
}

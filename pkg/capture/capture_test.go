package capture

import (
	"strings"
	"testing"
)

func TestCaller(t *testing.T) {
	loc, ok := Caller(0)
	if !ok {
		t.Fatal("Caller failed to resolve")
	}

	if loc.File != "capture_test.go" {
		t.Errorf("File = %q, want capture_test.go", loc.File)
	}
	if !strings.Contains(loc.Function, "capture.TestCaller") {
		t.Errorf("Function = %q, want package-qualified test name", loc.Function)
	}
	if loc.Line <= 0 {
		t.Errorf("Line = %d, want positive", loc.Line)
	}
}

func TestCallerSkip(t *testing.T) {
	var viaHelper Location
	helper := func() {
		loc, ok := Caller(1)
		if !ok {
			t.Fatal("Caller failed to resolve")
		}
		viaHelper = loc
	}
	helper()

	if !strings.Contains(viaHelper.Function, "TestCallerSkip") {
		t.Errorf("Function = %q, want the helper's caller", viaHelper.Function)
	}
}

func TestStackTrace(t *testing.T) {
	trace := StackTrace(0)

	if trace == "" {
		t.Fatal("empty stack trace")
	}
	if !strings.Contains(trace, "TestStackTrace") {
		t.Errorf("stack trace missing caller frame:\n%s", trace)
	}
	for _, line := range strings.Split(trace, "\n") {
		if strings.HasPrefix(line, "runtime.") {
			t.Errorf("runtime frame not elided: %s", line)
		}
	}
}

func TestFormatValue(t *testing.T) {
	intPtr := func(i int) *int { return &i }

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "nil"},
		{"string", "hello", "hello"},
		{"int", 42, "42"},
		{"float", 19.99, "19.99"},
		{"bool", true, "true"},
		{"slice", []int{1, 2, 3}, "[1 2 3]"},
		{"nil pointer", (*int)(nil), "nil"},
		{"pointer", intPtr(7), "7"},
		{"map", map[string]int{"a": 1}, "map[a:1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatValueStruct(t *testing.T) {
	type order struct {
		ID     string
		Amount float64
		note   string // unexported, skipped
	}

	got := FormatValue(order{ID: "ord-1", Amount: 5, note: "x"})
	if got != "order{ID:ord-1 Amount:5}" {
		t.Errorf("FormatValue = %q", got)
	}
}

func TestFormatValueTruncatesLongString(t *testing.T) {
	long := strings.Repeat("x", 5000)
	got := FormatValue(long)

	if len(got) > maxStringLength+3 {
		t.Errorf("len = %d, want <= %d", len(got), maxStringLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated string must end in ellipsis")
	}
}

func TestFormatValueDepthBound(t *testing.T) {
	nested := map[string]any{"a": map[string]any{"b": map[string]any{"c": map[string]any{"d": map[string]any{"e": "deep"}}}}}
	got := FormatValue(nested)

	if !strings.Contains(got, "<max depth exceeded>") {
		t.Errorf("deep nesting not bounded: %q", got)
	}
}

package capture

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

const (
	maxFormatDepth  = 4
	maxStringLength = 1000
	maxElements     = 100
)

// FormatValue renders a captured variable as a bounded string, the form
// scanned for sensitive data and transmitted with snapshots. Strings
// are truncated at maxStringLength; collections are cut off after
// maxElements entries; nesting stops at maxFormatDepth.
func FormatValue(value any) string {
	return formatValue(reflect.ValueOf(value), 0)
}

func formatValue(v reflect.Value, depth int) string {
	if !v.IsValid() {
		return "nil"
	}
	if depth > maxFormatDepth {
		return "<max depth exceeded>"
	}

	switch v.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return fmt.Sprintf("%v", v.Interface())

	case reflect.String:
		s := v.String()
		if len(s) > maxStringLength {
			return s[:maxStringLength] + "..."
		}
		return s

	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return "nil"
		}
		return formatValue(v.Elem(), depth)

	case reflect.Slice, reflect.Array:
		n := v.Len()
		parts := make([]string, 0, n)
		for i := 0; i < n && i < maxElements; i++ {
			parts = append(parts, formatValue(v.Index(i), depth+1))
		}
		if n > maxElements {
			parts = append(parts, "...")
		}
		return "[" + strings.Join(parts, " ") + "]"

	case reflect.Map:
		keys := v.MapKeys()
		entries := make([]string, 0, len(keys))
		for i, key := range keys {
			if i >= maxElements {
				entries = append(entries, "...")
				break
			}
			entries = append(entries, fmt.Sprintf("%v:%s", key.Interface(), formatValue(v.MapIndex(key), depth+1)))
		}
		sort.Strings(entries)
		return "map[" + strings.Join(entries, " ") + "]"

	case reflect.Struct:
		t := v.Type()
		fields := make([]string, 0, t.NumField())
		for i := 0; i < t.NumField() && i < maxElements; i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			fields = append(fields, t.Field(i).Name+":"+formatValue(v.Field(i), depth+1))
		}
		return t.Name() + "{" + strings.Join(fields, " ") + "}"

	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

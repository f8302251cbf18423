package snapshot

import (
	"strings"

	"github.com/tracekit/agent-go/pkg/capture"
	"github.com/tracekit/agent-go/pkg/security"
)

// RedactedValue replaces any variable value flagged during sanitizing.
const RedactedValue = "[REDACTED]"

// sensitiveNameHints trigger the name-based short-circuit: a variable
// whose name contains one of these (case-insensitive) is redacted
// without ever running the scanner.
var sensitiveNameHints = []string{"password", "secret", "token", "key", "credential"}

// Sanitize scans every captured variable and returns the sanitized map
// plus the security flags raised. Sensitively named variables are
// unconditionally redacted; everything else is redacted only when its
// formatted value produces scanner findings, one flag per finding with
// the finding's severity carried through.
func Sanitize(variables map[string]any, scanner *security.Scanner) (map[string]any, []SecurityFlag) {
	sanitized := make(map[string]any, len(variables))
	var flags []SecurityFlag

	for name, value := range variables {
		if hasSensitiveName(name) {
			flags = append(flags, SecurityFlag{
				Type:     "sensitive_variable_name",
				Severity: security.SeverityMedium.String(),
				Variable: name,
			})
			sanitized[name] = RedactedValue
			continue
		}

		findings := scanner.Scan(capture.FormatValue(value))
		if len(findings) == 0 {
			sanitized[name] = value
			continue
		}

		for _, f := range findings {
			flags = append(flags, SecurityFlag{
				Type:     "sensitive_data_" + strings.ToLower(f.Type),
				Severity: f.Severity.String(),
				Variable: name,
			})
		}
		sanitized[name] = RedactedValue
	}

	return sanitized, flags
}

func hasSensitiveName(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range sensitiveNameHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

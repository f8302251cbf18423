package security

import (
	"regexp"
	"strings"
)

// Marker replaces secret material removed by the Redactor.
const Marker = "***"

// Redactor removes sensitive values from text while preserving enough
// structure that the result still reads as the same construct. It uses
// the same detector family as Scanner, substituting instead of
// reporting.
type Redactor struct{}

// NewRedactor creates a Redactor. Stateless and safe for concurrent use.
func NewRedactor() *Redactor {
	return &Redactor{}
}

// Redact returns text with every detected secret substituted. Prefix
// secrets keep a short identifying prefix, assignment and call patterns
// keep their surrounding syntax, and Luhn-valid card numbers keep only
// the last four digits. Substituted text matches no detector, so
// redaction is idempotent, and non-matching text passes through
// unchanged.
func (r *Redactor) Redact(text string) string {
	if text == "" {
		return ""
	}

	// Fixed-prefix secrets retain an identifying prefix.
	text = redactKeepPrefix(text, awsAccessKey, 8)
	text = redactKeepPrefix(text, stripeSecret, 8)
	text = redactKeepPrefix(text, stripePublic, 8)

	// Generic keys keep the keyword, lose the value.
	text = genericKey.ReplaceAllString(text, `$1 = "`+Marker+`"`)

	text = redactPasswordShape(text, password)
	text = redactPasswordShape(text, passwordCall)

	// JWTs keep the "eyJ" signature.
	text = redactKeepPrefix(text, jwtToken, 3)

	// Card numbers keep the last four digits; Luhn rejects stay intact.
	text = cardNumber.ReplaceAllStringFunc(text, func(m string) string {
		if !luhnValid(m) {
			return m
		}
		return "****" + m[len(m)-4:]
	})

	return text
}

func redactKeepPrefix(text string, pattern *regexp.Regexp, keep int) string {
	return pattern.ReplaceAllStringFunc(text, func(m string) string {
		if len(m) <= keep {
			return Marker
		}
		return m[:keep] + Marker
	})
}

// redactPasswordShape rewrites a password-like match so the keyword and
// the assignment, map-entry, or method-call shape survive while the
// literal is replaced.
func redactPasswordShape(text string, pattern *regexp.Regexp) string {
	return pattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := pattern.FindStringSubmatch(m)
		keyword := sub[1]
		switch {
		case strings.Contains(m, "("):
			return "." + keyword + `("` + Marker + `")`
		case strings.Contains(m, ","):
			return keyword + `, "` + Marker + `"`
		default:
			return keyword + ` = "` + Marker + `"`
		}
	})
}

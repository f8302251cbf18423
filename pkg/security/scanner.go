// Package security detects and redacts sensitive data in captured text.
// Scans for cloud access keys, payment provider keys, passwords, JWT
// tokens, and card numbers before anything leaves the process.
package security

import (
	"regexp"
	"strings"
)

// Severity is the risk level of a finding. Levels are ordered:
// SeverityLow < SeverityMedium < SeverityHigh < SeverityCritical.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the lowercase wire form of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Finding is one instance of detected sensitive data.
// Line is 1-based, Column is the 0-based byte offset of the match.
type Finding struct {
	Type     string
	Line     int
	Column   int
	Severity Severity
	Message  string
}

// detector pairs a compiled pattern with its classification. validate,
// when set, is a predicate applied to the matched text after the regex
// hit; a false result suppresses the finding.
type detector struct {
	name     string
	pattern  *regexp.Regexp
	severity Severity
	message  string
	validate func(match string) bool
}

var (
	awsAccessKey = regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)
	stripeSecret = regexp.MustCompile(`\bsk_live_[0-9a-zA-Z]{10,}`)
	stripePublic = regexp.MustCompile(`\bpk_live_[0-9a-zA-Z]{10,}`)
	genericKey   = regexp.MustCompile(`(?i)(api[_-]?key|apikey|access[_-]?token)\s*[:=]\s*['"][a-zA-Z0-9]{32,}['"]`)
	password     = regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=,]\s*['"][^'"]{6,}['"]`)
	passwordCall = regexp.MustCompile(`(?i)\.(setPassword|setPasswd|password)\s*\(\s*['"][^'"]{6,}['"]\s*\)`)
	jwtToken     = regexp.MustCompile(`\beyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\b`)
	cardNumber   = regexp.MustCompile(`\b[0-9]{13,19}\b`)
)

// detectors is the fixed battery applied to every line, in order.
var detectors = []detector{
	{
		name:     "AWS_ACCESS_KEY",
		pattern:  awsAccessKey,
		severity: SeverityCritical,
		message:  "AWS Access Key detected - should be stored in environment variables or secrets manager",
	},
	{
		name:     "STRIPE_SECRET_KEY",
		pattern:  stripeSecret,
		severity: SeverityCritical,
		message:  "Stripe Secret Key detected - must never be committed to code",
	},
	{
		name:     "STRIPE_PUBLISHABLE_KEY",
		pattern:  stripePublic,
		severity: SeverityHigh,
		message:  "Stripe Publishable Key detected - should be stored securely",
	},
	{
		name:     "API_KEY",
		pattern:  genericKey,
		severity: SeverityHigh,
		message:  "API Key detected - should be stored in environment variables",
	},
	{
		name:     "PASSWORD",
		pattern:  password,
		severity: SeverityCritical,
		message:  "Hardcoded password detected - must be removed and stored securely",
	},
	{
		name:     "PASSWORD",
		pattern:  passwordCall,
		severity: SeverityCritical,
		message:  "Hardcoded password in method call - must be removed",
	},
	{
		name:     "JWT_TOKEN",
		pattern:  jwtToken,
		severity: SeverityHigh,
		message:  "JWT token detected - should not be hardcoded in source code",
	},
	{
		name:     "CREDIT_CARD",
		pattern:  cardNumber,
		severity: SeverityCritical,
		message:  "Valid credit card number detected - must be removed immediately",
		validate: luhnValid,
	},
}

// Scanner applies the detector battery line by line.
type Scanner struct{}

// NewScanner creates a Scanner. All patterns are precompiled at package
// init, so a Scanner carries no state and is safe for concurrent use.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan reports every sensitive-data occurrence in text. Lines are
// 1-based, columns 0-based. A line may produce multiple findings, one
// per independent pattern occurrence. Empty input yields no findings.
func (s *Scanner) Scan(text string) []Finding {
	if text == "" {
		return nil
	}

	var findings []Finding
	for i, line := range strings.Split(text, "\n") {
		for _, d := range detectors {
			for _, loc := range d.pattern.FindAllStringIndex(line, -1) {
				if d.validate != nil && !d.validate(line[loc[0]:loc[1]]) {
					continue
				}
				findings = append(findings, Finding{
					Type:     d.name,
					Line:     i + 1,
					Column:   loc[0],
					Severity: d.severity,
					Message:  d.message,
				})
			}
		}
	}

	return findings
}

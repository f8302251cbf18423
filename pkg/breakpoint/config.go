// Package breakpoint maintains the client-side mirror of remotely
// configured capture points: a periodically refreshed registry, the
// eligibility gate, and deduplicated auto-registration of unseen
// capture points.
package breakpoint

import "time"

// Config is one backend-owned breakpoint record. The client mirrors it
// read-only; only a registry refresh may change any field.
type Config struct {
	ID               string         `json:"id"`
	ServiceName      string         `json:"service_name"`
	FilePath         string         `json:"file_path"`
	FunctionName     string         `json:"function_name"`
	Label            string         `json:"label,omitempty"`
	LineNumber       int            `json:"line_number"`
	Condition        string         `json:"condition,omitempty"`
	MaxCaptures      int            `json:"max_captures"`
	CaptureCount     int            `json:"capture_count"`
	ExpireAt         *time.Time     `json:"expire_at,omitempty"`
	Enabled          bool           `json:"enabled"`
	CaptureFrequency int            `json:"capture_frequency"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// LabelKey returns the function:label composite key, or "" when the
// config carries no label.
func (c *Config) LabelKey() string {
	if c.Label == "" || c.FunctionName == "" {
		return ""
	}
	return c.FunctionName + ":" + c.Label
}

// LineKey returns the file:line composite key.
func (c *Config) LineKey() string {
	return lineKey(c.FilePath, c.LineNumber)
}

// Registration is the payload submitted when a previously unseen
// capture point registers itself.
type Registration struct {
	ServiceName  string `json:"service_name"`
	FilePath     string `json:"file_path"`
	LineNumber   int    `json:"line_number"`
	FunctionName string `json:"function_name"`
	Label        string `json:"label"`
}

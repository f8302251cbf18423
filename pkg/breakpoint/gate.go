package breakpoint

import "time"

// Eligible decides whether a config permits a capture at now. It is a
// pure read-only predicate over one cache snapshot; the returned reason
// feeds advisory debug logging only. Checks run in strict order: a
// match exists, enabled, not expired, under the capture limit. A
// MaxCaptures <= 0 means unlimited. CaptureCount is whatever the last
// refresh reported; local captures never increment it.
func Eligible(cfg *Config, now time.Time) (bool, string) {
	if cfg == nil {
		return false, "no breakpoint configured"
	}
	if !cfg.Enabled {
		return false, "breakpoint disabled"
	}
	if cfg.ExpireAt != nil && now.After(*cfg.ExpireAt) {
		return false, "breakpoint expired"
	}
	if cfg.MaxCaptures > 0 && cfg.CaptureCount >= cfg.MaxCaptures {
		return false, "max captures reached"
	}
	return true, ""
}

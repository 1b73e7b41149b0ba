package model

import "strings"

// Severity is the closed set of finding severities, ordered from most to
// least urgent.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// ParseSeverity normalizes a user-supplied string into a Severity, returning
// false if the value isn't one of the closed set.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityCritical:
		return SeverityCritical, true
	case SeverityHigh:
		return SeverityHigh, true
	case SeverityMedium:
		return SeverityMedium, true
	case SeverityLow:
		return SeverityLow, true
	case SeverityInfo:
		return SeverityInfo, true
	default:
		return "", false
	}
}

// IsBlocker reports whether a severity is considered a blocker by default
// (critical only — §4.7 defaults fail_on_critical=true, fail_on_high=false).
func (s Severity) IsBlocker() bool {
	return s == SeverityCritical
}

// Rank returns an ascending urgency rank (0 = most urgent) for stable
// sorting and threshold comparisons.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	case SeverityInfo:
		return 4
	default:
		return 5
	}
}

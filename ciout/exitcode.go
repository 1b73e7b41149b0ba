package ciout

import (
	"fmt"
	"strings"

	"github.com/wardenhq/warden/model"
)

// ExitCode is the closed set of process exit codes §6 mandates.
type ExitCode int

const (
	// ExitCodeSuccess indicates no blocker-level findings survived suppression.
	ExitCodeSuccess ExitCode = 0
	// ExitCodeBlocked indicates findings at or above the blocker threshold.
	ExitCodeBlocked ExitCode = 1
	// ExitCodeError indicates a pipeline or configuration error.
	ExitCodeError ExitCode = 2
)

// InvalidSeverityError is returned when an invalid severity is provided.
type InvalidSeverityError struct {
	Severity string
	Valid    []string
}

func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid severity '%s', must be one of: %s",
		e.Severity, strings.Join(e.Valid, ", "))
}

var validSeverities = map[string]bool{
	"critical": true,
	"high":     true,
	"medium":   true,
	"low":      true,
	"info":     true,
}

// BlockerThreshold configures which severities fail a scan, per-platform
// configurable per §4.7; defaults to fail_on_critical=true, fail_on_high=false.
type BlockerThreshold struct {
	FailOnCritical bool
	FailOnHigh     bool
	FailOnMedium   bool
	FailOnLow      bool
}

// DefaultBlockerThreshold returns the §4.7 default policy.
func DefaultBlockerThreshold() BlockerThreshold {
	return BlockerThreshold{FailOnCritical: true}
}

// Blocks reports whether a severity is configured to fail the scan.
func (b BlockerThreshold) Blocks(sev model.Severity) bool {
	switch sev {
	case model.SeverityCritical:
		return b.FailOnCritical
	case model.SeverityHigh:
		return b.FailOnHigh
	case model.SeverityMedium:
		return b.FailOnMedium
	case model.SeverityLow:
		return b.FailOnLow
	default:
		return false
	}
}

// DetermineExitCode applies precedence: pipeline errors beat blocker
// findings beat a clean pass. Findings are assumed already suppressed.
func DetermineExitCode(findings []model.Finding, threshold BlockerThreshold, hadErrors bool) ExitCode {
	if hadErrors {
		return ExitCodeError
	}
	for _, f := range findings {
		if threshold.Blocks(f.Severity) {
			return ExitCodeBlocked
		}
	}
	return ExitCodeSuccess
}

// ParseFailOn parses the comma-separated --fail-on flag value.
func ParseFailOn(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ThresholdFromFailOn builds a BlockerThreshold from a parsed --fail-on list;
// an empty list keeps the §4.7 default (critical only).
func ThresholdFromFailOn(severities []string) BlockerThreshold {
	if len(severities) == 0 {
		return DefaultBlockerThreshold()
	}
	var t BlockerThreshold
	for _, s := range severities {
		switch strings.ToLower(s) {
		case "critical":
			t.FailOnCritical = true
		case "high":
			t.FailOnHigh = true
		case "medium":
			t.FailOnMedium = true
		case "low":
			t.FailOnLow = true
		}
	}
	return t
}

// ValidateSeverities checks that all provided severities are valid.
func ValidateSeverities(severities []string) error {
	validList := []string{"critical", "high", "medium", "low", "info"}
	for _, severity := range severities {
		normalized := strings.ToLower(severity)
		if !validSeverities[normalized] {
			return &InvalidSeverityError{Severity: severity, Valid: validList}
		}
	}
	return nil
}

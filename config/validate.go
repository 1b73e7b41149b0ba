package config

import "fmt"

// IssueSeverity is the closed set a ValidationResult's issues carry.
type IssueSeverity string

const (
	IssueError   IssueSeverity = "error"
	IssueWarning IssueSeverity = "warning"
	IssueInfo    IssueSeverity = "info"
)

// ValidationIssue is one finding from validating a Config.
type ValidationIssue struct {
	Severity IssueSeverity
	Message  string
}

// ValidationResult is the outcome of Validate. HasErrors reports whether any
// issue is of severity error — errors prevent the pipeline from running.
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasErrors reports whether any issue is of severity error.
func (r *ValidationResult) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == IssueError {
			return true
		}
	}
	return false
}

func (r *ValidationResult) add(sev IssueSeverity, format string, args ...interface{}) {
	r.Issues = append(r.Issues, ValidationIssue{Severity: sev, Message: fmt.Sprintf(format, args...)})
}

var validPlatformTypes = map[string]bool{
	"ios": true, "android": true, "web": true, "backend": true,
	"cli": true, "library": true, "service": true, "mobile": true,
}

var validPlatformRoles = map[string]bool{
	"consumer": true, "provider": true, "both": true,
}

// Validate runs the four checks §4.3 specifies against cfg, given the set
// of frame ids currently registered (so frame_rules/suppressions references
// can be checked) and whether the contract/spec frame is enabled (which
// governs whether the consumer/provider check applies).
func Validate(cfg *Config, registeredFrameIDs map[string]bool, contractFrameEnabled bool) *ValidationResult {
	result := &ValidationResult{}

	if contractFrameEnabled {
		validateConsumerProvider(cfg, result)
	}
	validateFrameRuleReferences(cfg, registeredFrameIDs, result)
	validateRuleIDReferences(cfg, result)
	validatePlatformEnums(cfg, result)

	return result
}

// validateConsumerProvider is check 1: at least two platforms with roles
// consumer and provider — warning only.
func validateConsumerProvider(cfg *Config, result *ValidationResult) {
	hasConsumer, hasProvider := false, false
	for _, p := range cfg.Project.Platforms {
		switch p.Role {
		case "consumer", "both":
			hasConsumer = true
		}
		switch p.Role {
		case "provider", "both":
			hasProvider = true
		}
	}
	if !hasConsumer || !hasProvider {
		result.add(IssueWarning, "contract/spec frame is enabled but no platform pair declares both a consumer and a provider role")
	}
}

// validateFrameRuleReferences is check 2: every frame_id referenced in
// frame_rules or suppressions exists in the frame registry — warning.
func validateFrameRuleReferences(cfg *Config, registeredFrameIDs map[string]bool, result *ValidationResult) {
	for frameID := range cfg.Rules.FrameRules {
		if !registeredFrameIDs[frameID] {
			result.add(IssueWarning, "frame_rules references unknown frame %q", frameID)
		}
	}
	for _, s := range cfg.Rules.Suppressions {
		frameID := suppressionFrameID(s.Rule)
		if frameID != "" && frameID != "*" && !registeredFrameIDs[frameID] {
			result.add(IssueWarning, "suppression %q references unknown frame %q", s.Rule, frameID)
		}
	}
}

// validateRuleIDReferences is check 3: every rule id referenced in
// pre_rules/post_rules exists in rules[] — warning.
func validateRuleIDReferences(cfg *Config, result *ValidationResult) {
	known := make(map[string]bool, len(cfg.Rules.Rules))
	for _, r := range cfg.Rules.Rules {
		known[r.ID] = true
	}
	for frameID, entry := range cfg.Rules.FrameRules {
		for _, ruleID := range append(append([]string{}, entry.PreRules...), entry.PostRules...) {
			if !known[ruleID] {
				result.add(IssueWarning, "frame %q references unknown rule %q", frameID, ruleID)
			}
		}
	}
}

// validatePlatformEnums is check 4: platform type and role are from the
// closed enum sets — error.
func validatePlatformEnums(cfg *Config, result *ValidationResult) {
	for _, p := range cfg.Project.Platforms {
		if !validPlatformTypes[p.Type] {
			result.add(IssueError, "platform %q has invalid type %q", p.Name, p.Type)
		}
		if !validPlatformRoles[p.Role] {
			result.add(IssueError, "platform %q has invalid role %q", p.Name, p.Role)
		}
	}
}

// suppressionFrameID extracts the frame_id segment from a suppression rule
// pattern of the form "frame_id:rule_id:target".
func suppressionFrameID(pattern string) string {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == ':' {
			return pattern[:i]
		}
	}
	return pattern
}

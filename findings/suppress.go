package findings

import (
	"path"
	"strings"

	"github.com/wardenhq/warden/model"
)

// SuppressionDecision records one finding's fate for the pipeline metadata
// log §4.6 requires ("every suppression decision is logged with the
// matched rule").
type SuppressionDecision struct {
	Finding     model.Finding
	Suppressed  bool
	MatchedRule *model.SuppressionRule
}

// SuppressResult is the output of Suppress.
type SuppressResult struct {
	Survivors        []model.Finding
	SuppressedCount  int
	Decisions        []SuppressionDecision
}

// Suppress iterates findings against rules in order and removes any finding
// whose suppression key matches a rule's pattern (and, if the rule
// restricts files, whose file_path matches one of those globs too).
func Suppress(findingsIn []model.Finding, rules []model.SuppressionRule) SuppressResult {
	var result SuppressResult

	for _, f := range findingsIn {
		key := f.SuppressionKey()
		matched := matchRule(f, key, rules)

		result.Decisions = append(result.Decisions, SuppressionDecision{
			Finding:     f,
			Suppressed:  matched != nil,
			MatchedRule: matched,
		})

		if matched != nil {
			result.SuppressedCount++
			continue
		}
		result.Survivors = append(result.Survivors, f)
	}

	return result
}

func matchRule(f model.Finding, key string, rules []model.SuppressionRule) *model.SuppressionRule {
	for i := range rules {
		rule := &rules[i]
		if !matchSuppressionKey(rule.Rule, key) {
			continue
		}
		if len(rule.Files) > 0 && !matchesAnyFileGlob(rule.Files, f.FilePath) {
			continue
		}
		return rule
	}
	return nil
}

// matchSuppressionKey applies glob semantics segment-wise: "*" in a pattern
// segment matches exactly one key segment, never crossing a ":" boundary.
func matchSuppressionKey(pattern, key string) bool {
	patternSegs := strings.Split(pattern, ":")
	keySegs := strings.Split(key, ":")
	if len(patternSegs) != len(keySegs) {
		return false
	}
	for i := range patternSegs {
		ok, err := path.Match(patternSegs[i], keySegs[i])
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func matchesAnyFileGlob(globs []string, filePath string) bool {
	for _, g := range globs {
		if matchFileGlob(g, filePath) {
			return true
		}
	}
	return false
}

// matchFileGlob implements the "**" (cross-directory) / "*" (same-directory)
// distinction over POSIX-style paths without pulling in a glob library: "*"
// never matches "/", "**" matches zero or more path segments.
func matchFileGlob(pattern, filePath string) bool {
	patternSegs := strings.Split(pattern, "/")
	pathSegs := strings.Split(filePath, "/")
	return matchSegments(patternSegs, pathSegs)
}

func matchSegments(pattern, path2 []string) bool {
	if len(pattern) == 0 {
		return len(path2) == 0
	}
	head := pattern[0]

	if head == "**" {
		if matchSegments(pattern[1:], path2) {
			return true
		}
		if len(path2) == 0 {
			return false
		}
		return matchSegments(pattern, path2[1:])
	}

	if len(path2) == 0 {
		return false
	}
	ok, err := path.Match(head, path2[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], path2[1:])
}

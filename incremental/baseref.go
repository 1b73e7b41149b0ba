package incremental

import "os"

// ResolveBaseRef auto-detects the baseline ref from CI environment
// variables, in the precedence order §4.2 specifies: GitHub Actions,
// GitLab CI, Azure Pipelines, an explicit override, then HEAD~1 as the
// local-dev default outside any of those environments.
func ResolveBaseRef() string {
	if ref := os.Getenv("GITHUB_BASE_REF"); ref != "" {
		return "origin/" + ref
	}
	if ref := os.Getenv("CI_MERGE_REQUEST_TARGET_BRANCH_NAME"); ref != "" {
		return "origin/" + ref
	}
	if ref := os.Getenv("SYSTEM_PULLREQUEST_TARGETBRANCH"); ref != "" {
		return "origin/" + ref
	}
	if ref := os.Getenv("WARDEN_BASELINE_REF"); ref != "" {
		return ref
	}
	return "HEAD~1"
}

// Package findings implements the Finding Pipeline (C6): normalization,
// fingerprinting, deduplication, suppression, severity rollup, and the
// pipeline status decision.
package findings

import "github.com/wardenhq/warden/model"

// Normalize applies model.Finding.Normalize to every finding in place,
// given the project root used to relativize file paths.
func Normalize(findings []model.Finding, projectRoot string) []model.Finding {
	out := make([]model.Finding, len(findings))
	for i, f := range findings {
		out[i] = *f.Normalize(projectRoot)
	}
	return out
}

// Fingerprint computes and sets the Fingerprint field on every finding that
// doesn't already carry one (frames may pre-compute it themselves, but most
// don't need to).
func Fingerprint(findings []model.Finding) []model.Finding {
	for i := range findings {
		if findings[i].Fingerprint == "" {
			findings[i].Fingerprint = findings[i].ComputeFingerprint()
		}
	}
	return findings
}

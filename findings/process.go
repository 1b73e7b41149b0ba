package findings

import "github.com/wardenhq/warden/model"

// Process runs §4.6's full post-frame pipeline over an already-executed
// PipelineResult: normalize, fingerprint, dedup, and suppress every finding,
// then redistribute the survivors back into each FrameResult (preserving
// per-frame grouping) and recompute the result's totals and status. It
// mutates and returns result.
func Process(result *model.PipelineResult, projectRoot string, suppressions []model.SuppressionRule) *model.PipelineResult {
	var all []model.Finding
	for _, fr := range result.FrameResults {
		all = append(all, fr.Findings...)
	}

	all = Normalize(all, projectRoot)
	all = Fingerprint(all)
	all = Dedup(all)

	suppressResult := Suppress(all, suppressions)
	survivors := suppressResult.Survivors

	byFrame := make(map[string][]model.Finding, len(result.FrameResults))
	for _, f := range survivors {
		byFrame[f.FrameID] = append(byFrame[f.FrameID], f)
	}

	anyErrored := false
	anySkippedNoFail := false
	for i := range result.FrameResults {
		fr := &result.FrameResults[i]
		fr.Findings = byFrame[fr.FrameID]
		if fr.Status == model.FrameStatusErrored {
			anyErrored = true
		}
		if fr.Status == model.FrameStatusSkipped {
			anySkippedNoFail = true
		}
	}

	counts := SeverityRollup(survivors)
	result.FindingsBySeverity = counts
	result.TotalFindings = len(survivors)

	if result.Metadata == nil {
		result.Metadata = make(map[string]interface{})
	}
	result.Metadata["suppressed_gaps"] = suppressResult.SuppressedCount

	blockerHit := counts.Critical > 0
	if result.Status != model.PipelineCancelled {
		result.Status = DecideStatus(counts, StatusInputs{
			AnyFrameErrored:       anyErrored,
			AnyStopOnFailFired:    result.StopOnFailFired,
			BlockerThresholdHit:   blockerHit,
			AnyFrameSkippedNoFail: anySkippedNoFail,
		})
	}

	return result
}

package findings

import "github.com/wardenhq/warden/model"

// SeverityRollup tallies surviving findings into a SeverityCounts.
func SeverityRollup(findings []model.Finding) model.SeverityCounts {
	var counts model.SeverityCounts
	for _, f := range findings {
		counts.Add(f.Severity)
	}
	return counts
}

// StatusInputs bundles the facts the status decision needs, beyond the
// severity rollup itself.
type StatusInputs struct {
	AnyFrameErrored       bool
	AnyStopOnFailFired    bool
	BlockerThresholdHit   bool
	AnyFrameSkippedNoFail bool
}

// DecideStatus implements §4.6 step 6: the pipeline status decision, in the
// precedence order specified there.
func DecideStatus(counts model.SeverityCounts, in StatusInputs) model.PipelineStatus {
	if in.AnyFrameErrored && counts.Critical > 0 {
		return model.PipelineFailed
	}
	if in.AnyStopOnFailFired {
		return model.PipelineFailed
	}
	if in.BlockerThresholdHit {
		return model.PipelineFailed
	}
	if in.AnyFrameSkippedNoFail {
		return model.PipelinePartial
	}
	return model.PipelineSuccess
}

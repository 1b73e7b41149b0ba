package findings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/model"
)

func mkFinding(frameID, ruleID, msg, file string, line int) model.Finding {
	l := line
	f := model.Finding{FrameID: frameID, RuleID: ruleID, Message: msg, FilePath: file, Line: &l, Severity: model.SeverityHigh}
	f.Fingerprint = f.ComputeFingerprint()
	return f
}

func TestDedup_CollapsesSameFingerprintKeepsEarliest(t *testing.T) {
	a := mkFinding("security", "no-secrets", "leaked key", "a.go", 10)
	b := mkFinding("security", "no-secrets", "leaked key", "a.go", 10)
	c := mkFinding("security", "no-secrets", "other", "b.go", 5)

	out := Dedup([]model.Finding{a, b, c})
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Metadata["duplicate_count"])
}

func TestSuppress_MatchesWildcardKeyAndFileGlob(t *testing.T) {
	f := mkFinding("security", "no-secrets", "leaked key", "internal/config/secrets.go", 10)
	rules := []model.SuppressionRule{
		{Rule: "security:*:*", Files: []string{"internal/**"}},
	}

	result := Suppress([]model.Finding{f}, rules)
	assert.Equal(t, 1, result.SuppressedCount)
	assert.Empty(t, result.Survivors)
	assert.NotNil(t, result.Decisions[0].MatchedRule)
}

func TestSuppress_FileGlobSameDirectoryOnly(t *testing.T) {
	f := mkFinding("security", "no-secrets", "leaked key", "internal/config/sub/secrets.go", 10)
	rules := []model.SuppressionRule{
		{Rule: "security:*:*", Files: []string{"internal/config/*"}},
	}

	result := Suppress([]model.Finding{f}, rules)
	assert.Equal(t, 0, result.SuppressedCount, "single * must not cross directory boundaries")
}

func TestSuppress_NoMatchSurvives(t *testing.T) {
	f := mkFinding("security", "no-secrets", "leaked key", "a.go", 10)
	rules := []model.SuppressionRule{{Rule: "other-frame:*:*"}}

	result := Suppress([]model.Finding{f}, rules)
	assert.Equal(t, 0, result.SuppressedCount)
	assert.Len(t, result.Survivors, 1)
}

func TestSeverityRollup(t *testing.T) {
	findings := []model.Finding{
		{Severity: model.SeverityCritical},
		{Severity: model.SeverityCritical},
		{Severity: model.SeverityLow},
		{Severity: model.SeverityInfo},
	}
	counts := SeverityRollup(findings)
	assert.Equal(t, 2, counts.Critical)
	assert.Equal(t, 1, counts.Low)
	assert.Equal(t, 3, counts.Total())
}

func TestDecideStatus_Precedence(t *testing.T) {
	counts := model.SeverityCounts{Critical: 1}
	assert.Equal(t, model.PipelineFailed, DecideStatus(counts, StatusInputs{AnyFrameErrored: true}))
	assert.Equal(t, model.PipelineFailed, DecideStatus(model.SeverityCounts{}, StatusInputs{AnyStopOnFailFired: true}))
	assert.Equal(t, model.PipelinePartial, DecideStatus(model.SeverityCounts{}, StatusInputs{AnyFrameSkippedNoFail: true}))
	assert.Equal(t, model.PipelineSuccess, DecideStatus(model.SeverityCounts{}, StatusInputs{}))
}

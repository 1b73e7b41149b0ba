package findings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/model"
)

func TestProcess_DedupsAcrossFrames(t *testing.T) {
	line := 10
	finding := model.Finding{FrameID: "security", RuleID: "secret", FilePath: "a.py", Line: &line, Message: "Hardcoded secret detected", Severity: model.SeverityCritical}

	result := model.NewPipelineResult("p1", "default")
	result.FrameResults = []model.FrameResult{
		{FrameID: "security", Status: model.FrameStatusFailed, Findings: []model.Finding{finding, finding}},
	}

	Process(result, "", nil)

	require.Len(t, result.FrameResults, 1)
	assert.Len(t, result.FrameResults[0].Findings, 1)
	assert.Equal(t, 1, result.TotalFindings)
	assert.Equal(t, 1, result.FindingsBySeverity.Critical)
	assert.Equal(t, model.PipelineFailed, result.Status)
}

func TestProcess_AppliesSuppressions(t *testing.T) {
	line := 10
	finding := model.Finding{FrameID: "security", RuleID: "secret", FilePath: "internal/config/secrets.go", Line: &line, Message: "leaked key", Severity: model.SeverityCritical}

	result := model.NewPipelineResult("p1", "default")
	result.FrameResults = []model.FrameResult{
		{FrameID: "security", Status: model.FrameStatusFailed, Findings: []model.Finding{finding}},
	}

	rules := []model.SuppressionRule{{Rule: "security:*:*", Files: []string{"internal/**"}}}
	Process(result, "", rules)

	assert.Equal(t, 0, result.TotalFindings)
	assert.Equal(t, 1, result.Metadata["suppressed_gaps"])
	assert.Equal(t, model.PipelineSuccess, result.Status)
	assert.Empty(t, result.FrameResults[0].Findings)
}

func TestProcess_CleanResultIsSuccess(t *testing.T) {
	result := model.NewPipelineResult("p1", "default")
	result.FrameResults = []model.FrameResult{
		{FrameID: "security", Status: model.FrameStatusPassed},
	}

	Process(result, "", nil)
	assert.Equal(t, model.PipelineSuccess, result.Status)
	assert.Equal(t, 0, result.TotalFindings)
}

func TestProcess_PreservesCancelledStatus(t *testing.T) {
	result := model.NewPipelineResult("p1", "default")
	result.Status = model.PipelineCancelled
	result.FrameResults = []model.FrameResult{{FrameID: "security", Status: model.FrameStatusSkipped}}

	Process(result, "", nil)
	assert.Equal(t, model.PipelineCancelled, result.Status)
}

package builtinframes

import (
	"context"
	"fmt"
	"time"

	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/frame"
	"github.com/wardenhq/warden/model"
	"github.com/wardenhq/warden/platform"
)

// ContractFrame validates the platform topology a project declares (or that
// the platform detector suggests): it requires at least one consumer and
// one provider project before it will pass, matching §4.3's rule 1 and
// §4.8's contract-frame validation requirement.
type ContractFrame struct {
	// Platforms is read from config at Prepare time; nil until then.
	Platforms []config.Platform
}

// NewContractFrame returns a ContractFrame with no platforms loaded yet.
func NewContractFrame() *ContractFrame { return &ContractFrame{} }

func (f *ContractFrame) Metadata() frame.Metadata {
	return frame.Metadata{
		ID:           "contract",
		Name:         "Contract/Spec",
		Description:  "Validates that the declared platform topology has at least one consumer and one provider.",
		Priority:     model.PriorityMedium,
		IsBlocker:    false,
		Tags:         []string{"architecture", "contract"},
		Phase:        model.PhaseValidation,
		ParallelSafe: true,
	}
}

// Prepare reads the platform list out of pctx.Metadata, where the caller is
// expected to have placed the loaded config.Project.Platforms under the key
// "platforms" (the orchestrator's Context carries only primitives so frames
// stay decoupled from the config package's concrete types at the interface
// level).
func (f *ContractFrame) Prepare(ctx context.Context, pctx frame.Context) error {
	if raw, ok := pctx.Metadata["platforms"]; ok {
		if platforms, ok := raw.([]config.Platform); ok {
			f.Platforms = platforms
		}
	}
	return nil
}

func (f *ContractFrame) Execute(ctx context.Context, batch frame.Batch, pctx frame.Context) (*model.FrameResult, error) {
	start := time.Now()

	projects := make([]model.DetectedProject, 0, len(f.Platforms))
	for _, p := range f.Platforms {
		projects = append(projects, model.DetectedProject{
			Name:     p.Name,
			Path:     p.Path,
			Platform: p.Type,
			Role:     model.ProjectRole(p.Role),
		})
	}

	result := platform.Validate(projects, pctx.ProjectRoot, true)

	var findings []model.Finding
	for _, e := range result.Errors {
		findings = append(findings, model.Finding{
			FrameID:  "contract",
			RuleID:   "platform-topology",
			Severity: model.SeverityMedium,
			Message:  e,
			Target:   "platforms",
			Tags:     []string{"architecture", "contract"},
		})
	}
	for _, w := range result.Warnings {
		findings = append(findings, model.Finding{
			FrameID:  "contract",
			RuleID:   "platform-topology",
			Severity: model.SeverityInfo,
			Message:  w,
			Target:   "platforms",
			Tags:     []string{"architecture", "contract"},
		})
	}

	status := model.FrameStatusPassed
	if len(result.Errors) > 0 {
		status = model.FrameStatusFailed
	} else if len(result.Warnings) > 0 {
		status = model.FrameStatusWarning
	}

	return &model.FrameResult{
		FrameID:    f.Metadata().ID,
		FrameName:  f.Metadata().Name,
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
		IsBlocker:  f.Metadata().IsBlocker,
		Findings:   findings,
		Metadata:   map[string]interface{}{"platforms_evaluated": fmt.Sprintf("%d", len(f.Platforms))},
	}, nil
}

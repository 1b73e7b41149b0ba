package pipeline

import (
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/frame"
	"github.com/wardenhq/warden/model"
)

// ResolvedFrame bundles a Frame with the effective FrameConfig it should
// run under, after merging its own metadata defaults with any
// frame_rules/frame_overrides bindings from config.
type ResolvedFrame struct {
	Frame  frame.Frame
	Config model.FrameConfig
}

// Resolve builds the ResolvedFrame list for an already-ordered frame slice,
// folding in the project config's frame_rules (pre/post rules, on_fail) and
// frame_overrides (priority, is_blocker, timeout) per §4.4/§9's two-phase
// registry note — frames are registered first, rule bindings resolved by id
// second.
func Resolve(frames []frame.Frame, cfg *config.Config) []ResolvedFrame {
	resolved := make([]ResolvedFrame, 0, len(frames))

	for _, f := range frames {
		meta := f.Metadata()
		fc := model.FrameConfig{
			ID:         meta.ID,
			Name:       meta.Name,
			Priority:   meta.Priority,
			IsBlocker:  meta.IsBlocker,
			Tags:       meta.Tags,
			Phase:      meta.Phase,
			Parallel:   meta.ParallelSafe,
			DependsOn:  meta.DependsOn,
			TimeoutSec: meta.TimeoutSec,
			OnFail:     model.OnFailContinue,
		}

		if cfg != nil {
			if binding, ok := cfg.Rules.FrameRules[meta.ID]; ok {
				fc.PreRules = binding.PreRules
				fc.PostRules = binding.PostRules
				if binding.OnFail != "" {
					fc.OnFail = model.OnFailPolicy(binding.OnFail)
				}
			}
			if override, ok := cfg.Project.FrameOverrides[meta.ID]; ok {
				if override.Priority != "" {
					fc.Priority = model.Priority(override.Priority)
				}
				if override.IsBlocker != nil {
					fc.IsBlocker = *override.IsBlocker
				}
				if override.TimeoutSec > 0 {
					fc.TimeoutSec = override.TimeoutSec
				}
			}
		}

		resolved = append(resolved, ResolvedFrame{Frame: f, Config: fc})
	}

	return resolved
}

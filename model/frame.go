package model

import "time"

// FrameStatus is the closed set of statuses a FrameResult can carry.
type FrameStatus string

const (
	FrameStatusRunning FrameStatus = "running"
	FrameStatusPassed  FrameStatus = "passed"
	FrameStatusFailed  FrameStatus = "failed"
	FrameStatusWarning FrameStatus = "warning"
	FrameStatusSkipped FrameStatus = "skipped"
	FrameStatusErrored FrameStatus = "errored"
)

// Priority is the closed set of frame priority levels; lower rank runs first.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns the ordering rank used by the C4 frame ordering algorithm
// (critical=0, high=1, medium=2, low=3).
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// OnFailPolicy is the closed set of post-frame failure policies.
type OnFailPolicy string

const (
	OnFailContinue      OnFailPolicy = "continue"
	OnFailStop          OnFailPolicy = "stop"
	OnFailSkipDependents OnFailPolicy = "skip_dependents"
)

// Phase is a pipeline-level state the orchestrator passes through exactly
// once, in this order.
type Phase string

const (
	PhasePreAnalysis   Phase = "pre_analysis"
	PhaseAnalysis      Phase = "analysis"
	PhaseClassification Phase = "classification"
	PhaseValidation    Phase = "validation"
	PhaseFortification Phase = "fortification"
	PhaseCleaning      Phase = "cleaning"
	PhaseCompleted     Phase = "completed"
)

// PhaseOrder lists the phases in their mandated traversal order.
var PhaseOrder = []Phase{
	PhasePreAnalysis, PhaseAnalysis, PhaseClassification,
	PhaseValidation, PhaseFortification, PhaseCleaning, PhaseCompleted,
}

// FrameConfig describes one frame's registration-time configuration.
type FrameConfig struct {
	ID         string       `yaml:"id" json:"id"`
	Name       string       `yaml:"name" json:"name"`
	Priority   Priority     `yaml:"priority" json:"priority"`
	IsBlocker  bool         `yaml:"is_blocker" json:"is_blocker"`
	PreRules   []string     `yaml:"pre_rules" json:"pre_rules"`
	PostRules  []string     `yaml:"post_rules" json:"post_rules"`
	OnFail     OnFailPolicy `yaml:"on_fail" json:"on_fail"`
	Tags       []string     `yaml:"tags" json:"tags"`
	Phase      Phase        `yaml:"phase" json:"phase"`
	Parallel   bool         `yaml:"parallel_safe" json:"parallel_safe"`
	DependsOn  []string     `yaml:"depends_on" json:"depends_on"`
	TimeoutSec int          `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// EffectiveTimeout returns the configured per-frame timeout, defaulting to
// 300s per §4.5.
func (c FrameConfig) EffectiveTimeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 300 * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// EffectiveOnFail defaults to "continue" per §4.5.
func (c FrameConfig) EffectiveOnFail() OnFailPolicy {
	if c.OnFail == "" {
		return OnFailContinue
	}
	return c.OnFail
}

// FrameResult records one frame's execution outcome.
type FrameResult struct {
	FrameID     string        `json:"frame_id"`
	FrameName   string        `json:"frame_name"`
	Status      FrameStatus   `json:"status"`
	DurationMS  int64         `json:"duration_ms"`
	IsBlocker   bool          `json:"is_blocker"`
	Findings    []Finding     `json:"findings"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// IssuesFound returns len(findings) — kept as a method rather than a stored
// field so it can never drift from the findings slice (§3 invariant).
func (r *FrameResult) IssuesFound() int {
	return len(r.Findings)
}

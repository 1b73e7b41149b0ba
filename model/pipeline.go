package model

import "time"

// PipelineStatus is the closed set of pipeline-level statuses.
type PipelineStatus string

const (
	PipelineIdle      PipelineStatus = "idle"
	PipelineRunning   PipelineStatus = "running"
	PipelineSuccess   PipelineStatus = "success"
	PipelineFailed    PipelineStatus = "failed"
	PipelinePartial   PipelineStatus = "partial"
	PipelineCancelled PipelineStatus = "cancelled"
	PipelineErrored   PipelineStatus = "errored"
	PipelineCancelling PipelineStatus = "cancelling"
)

// SeverityCounts tallies surviving findings per severity.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Total sums the four tallied severities (info is tracked separately and
// excluded, matching the §3 schema which only tallies critical/high/medium/low).
func (s SeverityCounts) Total() int {
	return s.Critical + s.High + s.Medium + s.Low
}

// Add increments the bucket for sev, ignoring info/unknown severities.
func (s *SeverityCounts) Add(sev Severity) {
	switch sev {
	case SeverityCritical:
		s.Critical++
	case SeverityHigh:
		s.High++
	case SeverityMedium:
		s.Medium++
	case SeverityLow:
		s.Low++
	}
}

// PipelineResult is the immutable-after-completion result of one pipeline run.
type PipelineResult struct {
	PipelineID   string         `json:"pipeline_id"`
	PipelineName string         `json:"pipeline_name"`
	Status       PipelineStatus `json:"status"`
	StartedAt    time.Time      `json:"started_at"`
	DurationMS   int64          `json:"duration_ms"`

	TotalFrames    int `json:"total_frames"`
	FramesPassed   int `json:"frames_passed"`
	FramesFailed   int `json:"frames_failed"`
	FramesSkipped  int `json:"frames_skipped"`

	FindingsBySeverity SeverityCounts `json:"findings_by_severity"`
	TotalFindings      int            `json:"total_findings"`

	FrameResults []FrameResult          `json:"frame_results"`
	Metadata     map[string]interface{} `json:"metadata"`

	// StopOnFailFired records whether an on_fail: stop frame halted the
	// pipeline early, so status recomputation downstream (findings.Process)
	// can preserve the failed verdict instead of deriving it from scratch.
	StopOnFailFired bool `json:"stop_on_fail_fired"`
}

// NewPipelineResult seeds a result with an initialized metadata map so
// callers never need a nil check before writing into it.
func NewPipelineResult(id, name string) *PipelineResult {
	return &PipelineResult{
		PipelineID:   id,
		PipelineName: name,
		Status:       PipelineIdle,
		Metadata:     make(map[string]interface{}),
	}
}

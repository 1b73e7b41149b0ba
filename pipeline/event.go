// Package pipeline implements the Pipeline Orchestrator (C5): it runs the
// ordered frames produced by the Frame Registry through their declared
// phases, applies on_fail policy, enforces per-frame timeouts and a
// file-level circuit breaker, and emits a streaming progress event log
// alongside the final PipelineResult.
package pipeline

import "github.com/wardenhq/warden/model"

// EventType is the closed set of progress events the orchestrator emits.
type EventType string

const (
	EventFrameStarted   EventType = "frame_started"
	EventFrameCompleted EventType = "frame_completed"
	EventPhaseStarted   EventType = "phase_started"
	EventPipelineDone   EventType = "pipeline_done"
)

// Event is one entry of the orchestrator's progress stream. Consumers
// (the CLI's logger, analytics) read it as a finite, non-restartable
// sequence.
type Event struct {
	Type       EventType
	FrameID    string
	FrameName  string
	Phase      model.Phase
	Status     model.FrameStatus
	DurationMS int64
	IssuesFound int
}

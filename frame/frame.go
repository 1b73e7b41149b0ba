// Package frame implements the Frame Registry & Loader (C4): it holds the
// set of built-in and installed Frames, validates their metadata, and
// produces the stable, priority-ordered list the Pipeline Orchestrator
// executes.
package frame

import (
	"context"

	"github.com/wardenhq/warden/model"
)

// Metadata describes a Frame without running it.
type Metadata struct {
	ID                 string
	Name               string
	Description        string
	Priority           model.Priority
	IsBlocker          bool
	Tags               []string
	SupportedLanguages []string
	Phase              model.Phase
	ParallelSafe       bool
	DependsOn          []string
	TimeoutSec         int
}

// FileCircuitBreaker lets a frame that scans files one at a time report
// per-file failures; once more than a threshold of consecutive scans fail,
// RecordError returns true and the frame should stop and return its
// accumulated findings so the orchestrator can mark it errored.
type FileCircuitBreaker interface {
	RecordError(reason string) bool
	RecordSuccess()
}

// Context is the read-only project context a frame can use during prepare
// and execute — config and the frame registry are immutable once a
// pipeline starts, per the concurrency model.
type Context struct {
	ProjectRoot string
	Metadata    map[string]interface{}
	Breaker     FileCircuitBreaker
}

// Batch is the set of files a frame's execute call should scan.
type Batch struct {
	Files []model.DiscoveredFile
}

// Frame is the executable unit the orchestrator runs. Implementations must
// not mutate Batch or Context, and must return promptly after ctx is
// cancelled.
type Frame interface {
	Metadata() Metadata

	// Prepare runs once before execution begins; frames with no setup work
	// can make this a no-op.
	Prepare(ctx context.Context, pctx Context) error

	// Execute scans batch and returns a FrameResult. It must check
	// ctx.Done() between file scans so cooperative cancellation works.
	Execute(ctx context.Context, batch Batch, pctx Context) (*model.FrameResult, error)
}
